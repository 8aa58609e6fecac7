package notify

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/parqio/spot-booking/internal/models"
)

// Sender delivers one push message to one device token.
type Sender interface {
	Send(deviceToken, title, body string, data map[string]string) error
}

// Push is one notification addressed to a user. Dispatch happens after the
// booking transaction commits, so delivery failures can never affect booking
// state.
type Push struct {
	UserID uint
	Title  string
	Body   string
	Data   map[string]string
}

type Dispatcher struct {
	db     *gorm.DB
	sender Sender
	queue  chan Push
}

func NewDispatcher(db *gorm.DB, sender Sender) *Dispatcher {
	d := &Dispatcher{
		db:     db,
		sender: sender,
		queue:  make(chan Push, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for p := range d.queue {
		d.deliver(p)
	}
}

// deliver fans one push out to all of the user's device tokens. A failed
// token is logged and skipped; it must not abort the remaining tokens.
func (d *Dispatcher) deliver(p Push) {
	var user models.User
	if err := d.db.First(&user, p.UserID).Error; err != nil {
		log.Printf("notify: user %d not found: %v", p.UserID, err)
		return
	}

	if !user.AllowsNotifications || user.PushTokens == "" {
		return
	}

	var tokens []string
	if err := json.Unmarshal([]byte(user.PushTokens), &tokens); err != nil {
		log.Printf("notify: bad push tokens for user %d: %v", p.UserID, err)
		return
	}

	for _, token := range tokens {
		if err := d.sender.Send(token, p.Title, p.Body, p.Data); err != nil {
			log.Printf("notify: send to token failed for user %d: %v", p.UserID, err)
		}
	}
}

func (d *Dispatcher) Dispatch(p Push) {
	select {
	case d.queue <- p:
	default:
		// queue full: drop rather than block the request path
		log.Println("notify queue full, dropping push")
	}
}
