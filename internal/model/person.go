package model

// Person is one contact record from the persons endpoint (council
// members, clerks, staff)
type Person struct {
	ID         int
	FullName   string
	FirstName  string
	LastName   string
	Email      string
	ActiveFlag int
	Phone      string
	WWW        string
}
