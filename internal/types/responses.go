package types

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProfileResponse struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Year       string `json:"year"`
	Department string `json:"department"`
	Division   string `json:"division"`
	Subject    string `json:"subject"`
}
