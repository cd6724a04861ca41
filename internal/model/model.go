package model

import "time"

type SlotKind string

const (
	SlotCaptain SlotKind = "captain"
	SlotPlayer  SlotKind = "player"
)

const (
	TeamOne = "team1"
	TeamTwo = "team2"

	NumCaptainSlots = 1
	NumPlayerSlots  = 4
)

type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsCaptain bool   `json:"isCaptain"`
}

// Team holds a fixed row of captain slots and player slots. A nil entry is
// an open slot.
type Team struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Captains []*Player `json:"captains"`
	Players  []*Player `json:"players"`
}

type Lobby struct {
	Code        string   `json:"code"`
	Teams       []Team   `json:"teams"`
	WaitingList []Player `json:"waitingList"`
	CreatedAt   int64    `json:"createdAt"` // epoch millis
}

func DefaultTeams() []Team {
	return []Team{
		{
			ID:       TeamOne,
			Name:     "Team 1",
			Color:    "#3b82f6",
			Captains: make([]*Player, NumCaptainSlots),
			Players:  make([]*Player, NumPlayerSlots),
		},
		{
			ID:       TeamTwo,
			Name:     "Team 2",
			Color:    "#ef4444",
			Captains: make([]*Player, NumCaptainSlots),
			Players:  make([]*Player, NumPlayerSlots),
		},
	}
}

func NewLobby(code string) *Lobby {
	return &Lobby{
		Code:        code,
		Teams:       DefaultTeams(),
		WaitingList: []Player{},
		CreatedAt:   time.Now().UnixMilli(),
	}
}

// Reset restores both teams to their defaults and empties the waiting list.
func (l *Lobby) Reset() {
	l.Teams = DefaultTeams()
	l.WaitingList = []Player{}
}

func (l *Lobby) Team(id string) *Team {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return &l.Teams[i]
		}
	}
	return nil
}

func (t *Team) slots(kind SlotKind) []*Player {
	if kind == SlotCaptain {
		return t.Captains
	}
	return t.Players
}

// Clone returns a deep copy sharing no slot pointers with the receiver.
func (l *Lobby) Clone() *Lobby {
	out := &Lobby{
		Code:        l.Code,
		Teams:       make([]Team, len(l.Teams)),
		WaitingList: append([]Player{}, l.WaitingList...),
		CreatedAt:   l.CreatedAt,
	}
	for i, t := range l.Teams {
		nt := t
		nt.Captains = clonePlayers(t.Captains)
		nt.Players = clonePlayers(t.Players)
		out.Teams[i] = nt
	}
	return out
}

func clonePlayers(slots []*Player) []*Player {
	out := make([]*Player, len(slots))
	for i, p := range slots {
		if p != nil {
			cp := *p
			out[i] = &cp
		}
	}
	return out
}
