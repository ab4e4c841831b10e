package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Layouts used by every record in the remote store. CreatedAt is always
// "YYYY-MM-DD HH:MM:SS"; target/record/upload dates are plain "YYYY-MM-DD".
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

const (
	RoleBoy  Role = "boy"
	RoleGirl Role = "girl"
)

const (
	MoodHappy  Mood = "happy"
	MoodGood   Mood = "good"
	MoodNormal Mood = "normal"
	MoodSad    Mood = "sad"
	MoodAngry  Mood = "angry"
)

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryOther         Category = "other"
)

type (
	// Role identifies which of the two partners authored a record. The wire
	// values are fixed; a partition only ever contains these two.
	Role string

	Mood string

	Category string

	DiaryEntry struct {
		ID         string
		Text       string
		Mood       Mood
		Author     Role
		SecretCode string
		CreatedAt  string
	}

	PlanTask struct {
		ID          string
		Description string
		Completed   bool
		Author      Role
		TargetDate  string // plain date, distinct from CreatedAt
		SecretCode  string
		CreatedAt   string
	}

	AccountingEntry struct {
		ID          string
		Description string
		Amount      float64
		Category    Category
		Author      Role
		SecretCode  string
		CreatedAt   string
	}

	MoodEntry struct {
		ID          string
		Mood        Mood
		Weight      int
		Note        string
		PhotoBase64 string // optional inline photo
		Author      Role
		RecordDate  string
		SecretCode  string
		CreatedAt   string
	}

	PhotoEntry struct {
		ID         string
		URL        string // remote URL, preferred when present
		Base64     string // inline JPEG payload, used when URL is empty
		Caption    string
		Author     Role
		UploadDate string
		SecretCode string
		CreatedAt  string
	}
)

var (
	ErrInvalidRole      = errors.New("invalid author role")
	ErrInvalidMood      = errors.New("invalid mood")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyText        = errors.New("empty text")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCaption     = errors.New("empty caption")
	ErrEmptySecretCode  = errors.New("empty secret code")
	ErrEmptyPhoto       = errors.New("photo has neither url nor payload")
)

func (r Role) Valid() bool {
	return r == RoleBoy || r == RoleGirl
}

// Other returns the partner's role.
func (r Role) Other() Role {
	if r == RoleBoy {
		return RoleGirl
	}
	return RoleBoy
}

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodGood, MoodNormal, MoodSad, MoodAngry:
		return true
	}
	return false
}

// Weight maps a mood to its numeric value, happy=5 down to angry=1.
// 0 means "unknown mood" and must never be confused with angry.
func (m Mood) Weight() int {
	switch m {
	case MoodHappy:
		return 5
	case MoodGood:
		return 4
	case MoodNormal:
		return 3
	case MoodSad:
		return 2
	case MoodAngry:
		return 1
	}
	return 0
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// Categories returns the fixed accounting taxonomy in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTransport, CategoryEntertainment, CategoryShopping, CategoryOther}
}

// Moods returns the mood scale from best to worst.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodGood, MoodNormal, MoodSad, MoodAngry}
}

// DayOf extracts the calendar-date portion of a CreatedAt timestamp.
func DayOf(createdAt string) string {
	if i := strings.IndexByte(createdAt, ' '); i > 0 {
		return createdAt[:i]
	}
	return createdAt
}

func FormatTimestamp(t time.Time) string { return t.Format(TimestampLayout) }

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseCompleted normalizes the polymorphic "completed" field the store may
// return as a bool, the strings "true"/"false", or nothing at all. This is
// the single place raw field types are inspected; everything downstream sees
// a strict bool.
func ParseCompleted(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

// ParseAmount normalizes a numeric field that may arrive as a number or a
// string. A value that cannot be coerced yields (0, false) rather than NaN
// so that it never poisons a sum; callers decide whether to surface it.
func ParseAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseMoodValue normalizes the stored mood weight (string or number) to an
// int in [0,5]; anything unparseable or out of range collapses to 0.
func ParseMoodValue(v any) int {
	f, ok := ParseAmount(v)
	if !ok {
		return 0
	}
	w := int(f)
	if w < 0 || w > 5 {
		return 0
	}
	return w
}

func (e DiaryEntry) Validate() error {
	if strings.TrimSpace(e.Text) == "" {
		return ErrEmptyText
	}
	if !e.Author.Valid() {
		return ErrInvalidRole
	}
	if strings.TrimSpace(e.SecretCode) == "" {
		return ErrEmptySecretCode
	}
	return nil
}

func (t PlanTask) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Author.Valid() {
		return ErrInvalidRole
	}
	if !ValidDate(t.TargetDate) {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.SecretCode) == "" {
		return ErrEmptySecretCode
	}
	return nil
}

func (e AccountingEntry) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.Author.Valid() {
		return ErrInvalidRole
	}
	if strings.TrimSpace(e.SecretCode) == "" {
		return ErrEmptySecretCode
	}
	return nil
}

func (m MoodEntry) Validate() error {
	if !m.Mood.Valid() {
		return ErrInvalidMood
	}
	if !m.Author.Valid() {
		return ErrInvalidRole
	}
	if !ValidDate(m.RecordDate) {
		return ErrInvalidDate
	}
	if strings.TrimSpace(m.SecretCode) == "" {
		return ErrEmptySecretCode
	}
	return nil
}

func (p PhotoEntry) Validate() error {
	if p.URL == "" && p.Base64 == "" {
		return ErrEmptyPhoto
	}
	if strings.TrimSpace(p.Caption) == "" {
		return ErrEmptyCaption
	}
	if !p.Author.Valid() {
		return ErrInvalidRole
	}
	if !ValidDate(p.UploadDate) {
		return ErrInvalidDate
	}
	if strings.TrimSpace(p.SecretCode) == "" {
		return ErrEmptySecretCode
	}
	return nil
}

// Day returns the calendar date a diary entry belongs to. Diary grouping
// always uses the creation timestamp's date portion.
func (e DiaryEntry) Day() string { return DayOf(e.CreatedAt) }

// Day returns the calendar date a photo belongs to: the explicit upload date
// when set, otherwise the creation date.
func (p PhotoEntry) Day() string {
	if p.UploadDate != "" {
		return p.UploadDate
	}
	return DayOf(p.CreatedAt)
}
