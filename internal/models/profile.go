package models

import "time"

// TraderStyle categorizes the user's trading horizon.
type TraderStyle string

const (
	Scalper        TraderStyle = "Scalper"
	DayTrader      TraderStyle = "DayTrader"
	SwingTrader    TraderStyle = "SwingTrader"
	PositionTrader TraderStyle = "PositionTrader"
	Investor       TraderStyle = "Investor"
)

// Account is a funded trading account. The journal core reads capital
// and currency for position sizing and never mutates it.
type Account struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Currency        string   `json:"currency"`
	StartingCapital float64  `json:"startingCapital"`
	CurrentCapital  float64  `json:"currentCapital"`
	Markets         []Market `json:"markets"`
}

// UserProfile is the trader's self-description collected at onboarding.
// The scoring engine consumes TraderStyle; accounts feed sizing.
type UserProfile struct {
	Name             string        `json:"name"`
	TraderStyle      TraderStyle   `json:"traderStyle"`
	SecondaryStyles  []TraderStyle `json:"secondaryStyles"`
	PrimaryMarkets   []Market      `json:"primaryMarkets"`
	SecondaryMarkets []Market      `json:"secondaryMarkets"`
	Accounts         []Account     `json:"accounts"`
	Strengths        []string      `json:"strengths"`
	Weaknesses       []string      `json:"weaknesses"`

	SetupsByAccount map[string][]string `json:"setupsByAccount"`
	AssetsByAccount map[string][]string `json:"assetsByAccount"`
}

// AccountByID returns the account with the given id, or nil.
func (p *UserProfile) AccountByID(id string) *Account {
	for i := range p.Accounts {
		if p.Accounts[i].ID == id {
			return &p.Accounts[i]
		}
	}
	return nil
}

// ChatRole identifies who wrote a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleCoach ChatRole = "model"
)

// ChatMessage is one turn of the coach conversation.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"parts"`
	Timestamp time.Time `json:"timestamp"`
}
