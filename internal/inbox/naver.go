package inbox

// NaverLink is the state of the Naver connect form.
type NaverLink struct {
	open       bool
	email      string
	password   string
	submitting bool
}

func (n *NaverLink) IsOpen() bool     { return n.open }
func (n *NaverLink) Email() string    { return n.email }
func (n *NaverLink) Password() string { return n.password }
func (n *NaverLink) Submitting() bool { return n.submitting }

// Open shows the form.
func (n *NaverLink) Open() { n.open = true }

// Close hides the form and forgets what was typed.
func (n *NaverLink) Close() {
	*n = NaverLink{}
}

// SetCredentials stores the typed address and app password.
func (n *NaverLink) SetCredentials(email, password string) {
	n.email = email
	n.password = password
}

// CanSubmit reports whether the submit control is enabled: both fields are
// filled and no request is in flight.
func (n *NaverLink) CanSubmit() bool {
	return !n.submitting && n.email != "" && n.password != ""
}
