package entity

import (
	"time"
)

// PersistentLogin is one remember-me login session. Series is globally
// unique and never changes; Token is replaced on every successful use.
type PersistentLogin struct {
	Series   string    `json:"series"`
	Username string    `json:"username"`
	Token    string    `json:"token"`
	LastUsed time.Time `json:"last_used"`
}
