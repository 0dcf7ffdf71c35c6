package form

import (
	"errors"

	"github.com/google/uuid"
)

var ErrRowNotFound = errors.New("row not found")

// keyedRow is satisfied by a pointer to any row embedding schema.Keyed.
type keyedRow[T any] interface {
	*T
	RowKey() string
	SetRowKey(string)
}

// Section is an ordered list of rows with stable keys. Indexes shift on
// removal, keys never do.
type Section[T any, P keyedRow[T]] struct {
	rows []T
}

// NewSection adopts rows, assigning a key to every row that has none.
func NewSection[T any, P keyedRow[T]](rows []T) *Section[T, P] {
	s := &Section[T, P]{rows: make([]T, 0, len(rows))}
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		k := P(&r).RowKey()
		if k == "" || seen[k] {
			k = uuid.NewString()
			P(&r).SetRowKey(k)
		}
		seen[k] = true
		s.rows = append(s.rows, r)
	}
	return s
}

// Append adds row at the end under a fresh key and returns that key.
func (s *Section[T, P]) Append(row T) string {
	k := uuid.NewString()
	P(&row).SetRowKey(k)
	s.rows = append(s.rows, row)
	return k
}

// Remove deletes the row at index; later rows shift down.
func (s *Section[T, P]) Remove(index int) (string, error) {
	if index < 0 || index >= len(s.rows) {
		return "", ErrRowNotFound
	}
	k := P(&s.rows[index]).RowKey()
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
	return k, nil
}

func (s *Section[T, P]) RemoveKey(key string) bool {
	i := s.Index(key)
	if i < 0 {
		return false
	}
	_, _ = s.Remove(i)
	return true
}

// Index returns -1 when no row has key.
func (s *Section[T, P]) Index(key string) int {
	for i := range s.rows {
		if P(&s.rows[i]).RowKey() == key {
			return i
		}
	}
	return -1
}

// Update applies fn to the row with key. The key itself cannot be changed by fn.
func (s *Section[T, P]) Update(key string, fn func(*T)) bool {
	i := s.Index(key)
	if i < 0 {
		return false
	}
	fn(&s.rows[i])
	P(&s.rows[i]).SetRowKey(key)
	return true
}

// Reset replaces every row, issuing new keys.
func (s *Section[T, P]) Reset(rows []T) {
	s.rows = s.rows[:0]
	for _, r := range rows {
		s.Append(r)
	}
}

// Rows returns a copy of the current rows.
func (s *Section[T, P]) Rows() []T {
	out := make([]T, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Section[T, P]) Len() int { return len(s.rows) }
