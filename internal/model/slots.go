package model

import "strings"

// AddToWaitingList appends a player whose trimmed name is non-empty. Names
// are not deduplicated; only identifiers distinguish players.
func (l *Lobby) AddToWaitingList(p Player) bool {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return false
	}
	l.WaitingList = append(l.WaitingList, p)
	return true
}

// RemoveFromWaitingList drops the player with the given id, if present.
func (l *Lobby) RemoveFromWaitingList(id string) {
	kept := l.WaitingList[:0]
	for _, p := range l.WaitingList {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	l.WaitingList = kept
}

// JoinSlot moves a player into the target slot. The player must be known to
// the lobby: currently on the waiting list, or already seated (which implies
// they came through the waiting list once). Anyone else is a no-op. Filling
// the slot, vacating any slot the player held before, and leaving the
// waiting list happen in one transition, so the player is never in two
// places at once.
func (l *Lobby) JoinSlot(playerID, teamID string, kind SlotKind, idx int) bool {
	joining := l.findPlayer(playerID)
	if joining == nil {
		return false
	}

	team := l.Team(teamID)
	if team == nil {
		return false
	}
	slots := team.slots(kind)
	if idx < 0 || idx >= len(slots) {
		return false
	}

	l.clearSlots(playerID)
	l.RemoveFromWaitingList(playerID)
	joining.IsCaptain = kind == SlotCaptain
	slots[idx] = joining
	return true
}

// LeaveSlot empties the given slot. The occupant is not returned to the
// waiting list.
func (l *Lobby) LeaveSlot(teamID string, kind SlotKind, idx int) bool {
	team := l.Team(teamID)
	if team == nil {
		return false
	}
	slots := team.slots(kind)
	if idx < 0 || idx >= len(slots) {
		return false
	}
	slots[idx] = nil
	return true
}

// RemovePlayer clears every slot held by the player and drops them from the
// waiting list. Used for leave-lobby and tab-closed cleanup.
func (l *Lobby) RemovePlayer(id string) {
	l.clearSlots(id)
	l.RemoveFromWaitingList(id)
}

// findPlayer returns a copy of the player record from the waiting list or
// any occupied slot, or nil if the id is unknown to the lobby.
func (l *Lobby) findPlayer(id string) *Player {
	for i := range l.WaitingList {
		if l.WaitingList[i].ID == id {
			cp := l.WaitingList[i]
			return &cp
		}
	}
	for i := range l.Teams {
		for _, slots := range [][]*Player{l.Teams[i].Captains, l.Teams[i].Players} {
			for _, p := range slots {
				if p != nil && p.ID == id {
					cp := *p
					return &cp
				}
			}
		}
	}
	return nil
}

func (l *Lobby) clearSlots(id string) {
	for i := range l.Teams {
		clearMatching(l.Teams[i].Captains, id)
		clearMatching(l.Teams[i].Players, id)
	}
}

func clearMatching(slots []*Player, id string) {
	for i, p := range slots {
		if p != nil && p.ID == id {
			slots[i] = nil
		}
	}
}

// RenameTeam changes a team's display name. Only the occupant of captain
// slot 0 of that team may rename it.
func (l *Lobby) RenameTeam(actorID, teamID, name string) bool {
	team := l.Team(teamID)
	if team == nil || !isLeadCaptain(team, actorID) {
		return false
	}
	team.Name = name
	return true
}

// RecolorTeam changes a team's color under the same captain-0 rule.
func (l *Lobby) RecolorTeam(actorID, teamID, color string) bool {
	team := l.Team(teamID)
	if team == nil || !isLeadCaptain(team, actorID) {
		return false
	}
	team.Color = color
	return true
}

func isLeadCaptain(t *Team, id string) bool {
	return len(t.Captains) > 0 && t.Captains[0] != nil && t.Captains[0].ID == id
}

// SlotCount reports how many slots across both teams hold the given id.
func (l *Lobby) SlotCount(id string) int {
	n := 0
	for i := range l.Teams {
		n += countMatching(l.Teams[i].Captains, id)
		n += countMatching(l.Teams[i].Players, id)
	}
	return n
}

func countMatching(slots []*Player, id string) int {
	n := 0
	for _, p := range slots {
		if p != nil && p.ID == id {
			n++
		}
	}
	return n
}

// OnWaitingList reports whether the id is currently waiting.
func (l *Lobby) OnWaitingList(id string) bool {
	for _, p := range l.WaitingList {
		if p.ID == id {
			return true
		}
	}
	return false
}
