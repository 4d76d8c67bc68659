package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable    = "enable"
	fieldActive    = "active"
	fieldStatus    = "status"
	fieldAttempts  = "attempts"
	fieldUpdatedAt = "updated_at"
)
