package rtspconn

// Credentials is a set of credentials used to authenticate against a server.
type Credentials struct {
	User string
	Pass string
}

// NewCredentials allocates a Credentials.
// An empty username and password means no credentials; a password without
// a username is rejected, since RTSP has no way to send it.
func NewCredentials(user string, pass string) *Credentials {
	if user == "" {
		if pass != "" {
			panic("password provided without username")
		}
		return nil
	}

	return &Credentials{
		User: user,
		Pass: pass,
	}
}
