package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	BoardID      string
	EntityID     *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
