package domain

import "time"

type Session struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	TeacherID   *int64    `json:"teacher_id"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasParticipant indica si el usuario ya forma parte de la sesion.
func (s *Session) HasParticipant(userID int64) bool {
	for _, id := range s.Users {
		if id == userID {
			return true
		}
	}
	return false
}

// AddParticipant agrega el usuario si no estaba. Devuelve false si ya participaba.
func (s *Session) AddParticipant(userID int64) bool {
	if s.HasParticipant(userID) {
		return false
	}
	s.Users = append(s.Users, userID)
	return true
}

// RemoveParticipant quita el usuario. Devuelve false si no participaba.
func (s *Session) RemoveParticipant(userID int64) bool {
	for i, id := range s.Users {
		if id == userID {
			s.Users = append(s.Users[:i:i], s.Users[i+1:]...)
			return true
		}
	}
	return false
}

// NormalizeParticipants elimina ids duplicados conservando el primer orden de aparicion.
func (s *Session) NormalizeParticipants() {
	seen := make(map[int64]struct{}, len(s.Users))
	unique := make([]int64, 0, len(s.Users))
	for _, id := range s.Users {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	s.Users = unique
}
