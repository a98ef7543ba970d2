package domain

// User is a registered chat participant.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// UserSummary is the public projection of a user shown in lists and first-circle updates.
type UserSummary struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

type NewUser struct {
	Name string `validate:"required,max=64"`
}

func (u NewUser) Validate() error {
	return validate.Struct(u)
}
