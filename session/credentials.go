package session

// Credentials are the account login used to open sessions
type Credentials struct {
	Login    string
	Password string
}

// Complete reports whether both fields are set
func (c Credentials) Complete() bool {
	return c.Login != "" && c.Password != ""
}

// String hides the password
func (c Credentials) String() string {
	return c.Login + ":***"
}
