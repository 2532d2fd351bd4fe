package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Goal is a scoring event. Minute is nil when the scorer was recorded without a time.
type Goal struct {
	PlayerID string `json:"player_id"`
	Minute   *int   `json:"minute,omitempty"`
}

// UnmarshalJSON accepts both shapes seen in stored data: a bare player id string
// and the {player_id, minute} object. The legacy "player" key is read as well.
func (g *Goal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*g = Goal{PlayerID: id}
		return nil
	}

	var raw struct {
		PlayerID string `json:"player_id"`
		Player   string `json:"player"`
		Minute   *int   `json:"minute"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	id := raw.PlayerID
	if id == "" {
		id = raw.Player
	}
	*g = Goal{PlayerID: id, Minute: raw.Minute}
	return nil
}
