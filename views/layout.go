package views

import "questpath/models"

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Message string
}

// Layout is the data every page shares with the base template. A nil
// User hides the navbar and the live session socket.
type Layout struct {
	Title   string
	Active  string
	User    *models.User
	Flashes []Flash
}

func (l Layout) Authenticated() bool { return l.User != nil }
