package core

import "strconv"

// Codec between typed records and the raw field maps the document store
// works with. Decoding is the normalization boundary: every polymorphic
// field (completed, amount, moodValue) is coerced exactly once, here.
// Encoding writes the legacy wire shapes (booleans and numerics as strings)
// so partitions created by older clients stay readable and writable.

func fieldString(f map[string]any, key string) string {
	if v, ok := f[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func DecodeDiaryEntry(id, createdAt string, f map[string]any) DiaryEntry {
	return DiaryEntry{
		ID:         id,
		Text:       fieldString(f, "text"),
		Mood:       Mood(fieldString(f, "mood")),
		Author:     Role(fieldString(f, "author")),
		SecretCode: fieldString(f, "secretCode"),
		CreatedAt:  createdAt,
	}
}

func (e DiaryEntry) Fields() map[string]any {
	return map[string]any{
		"text":       e.Text,
		"mood":       string(e.Mood),
		"author":     string(e.Author),
		"secretCode": e.SecretCode,
	}
}

func DecodePlanTask(id, createdAt string, f map[string]any) PlanTask {
	return PlanTask{
		ID:          id,
		Description: fieldString(f, "description"),
		Completed:   ParseCompleted(f["completed"]),
		Author:      Role(fieldString(f, "author")),
		TargetDate:  fieldString(f, "targetDate"),
		SecretCode:  fieldString(f, "secretCode"),
		CreatedAt:   createdAt,
	}
}

func (t PlanTask) Fields() map[string]any {
	return map[string]any{
		"description": t.Description,
		"completed":   strconv.FormatBool(t.Completed),
		"author":      string(t.Author),
		"targetDate":  t.TargetDate,
		"secretCode":  t.SecretCode,
	}
}

// DecodeAccountingEntry reports ok=false when the stored amount could not be
// coerced to a number; the entry is still returned with a zero amount so a
// single bad record does not hide the rest of the ledger.
func DecodeAccountingEntry(id, createdAt string, f map[string]any) (AccountingEntry, bool) {
	amount, ok := ParseAmount(f["amount"])
	return AccountingEntry{
		ID:          id,
		Description: fieldString(f, "description"),
		Amount:      amount,
		Category:    Category(fieldString(f, "category")),
		Author:      Role(fieldString(f, "author")),
		SecretCode:  fieldString(f, "secretCode"),
		CreatedAt:   createdAt,
	}, ok
}

func (e AccountingEntry) Fields() map[string]any {
	return map[string]any{
		"description": e.Description,
		"amount":      strconv.FormatFloat(e.Amount, 'f', -1, 64),
		"category":    string(e.Category),
		"author":      string(e.Author),
		"secretCode":  e.SecretCode,
	}
}

func DecodeMoodEntry(id, createdAt string, f map[string]any) MoodEntry {
	m := MoodEntry{
		ID:          id,
		Mood:        Mood(fieldString(f, "mood")),
		Weight:      ParseMoodValue(f["moodValue"]),
		Note:        fieldString(f, "note"),
		PhotoBase64: fieldString(f, "photoBase64"),
		Author:      Role(fieldString(f, "author")),
		RecordDate:  fieldString(f, "recordDate"),
		SecretCode:  fieldString(f, "secretCode"),
		CreatedAt:   createdAt,
	}
	// Older records may lack moodValue entirely; fall back to the label.
	if m.Weight == 0 {
		m.Weight = m.Mood.Weight()
	}
	return m
}

func (m MoodEntry) Fields() map[string]any {
	f := map[string]any{
		"mood":       string(m.Mood),
		"moodValue":  strconv.Itoa(m.Weight),
		"note":       m.Note,
		"author":     string(m.Author),
		"recordDate": m.RecordDate,
		"secretCode": m.SecretCode,
	}
	if m.PhotoBase64 != "" {
		f["photoBase64"] = m.PhotoBase64
	}
	return f
}

func DecodePhotoEntry(id, createdAt string, f map[string]any) PhotoEntry {
	return PhotoEntry{
		ID:         id,
		URL:        fieldString(f, "photoUrl"),
		Base64:     fieldString(f, "photoBase64"),
		Caption:    fieldString(f, "caption"),
		Author:     Role(fieldString(f, "author")),
		UploadDate: fieldString(f, "uploadDate"),
		SecretCode: fieldString(f, "secretCode"),
		CreatedAt:  createdAt,
	}
}

func (p PhotoEntry) Fields() map[string]any {
	f := map[string]any{
		"caption":    p.Caption,
		"author":     string(p.Author),
		"uploadDate": p.UploadDate,
		"secretCode": p.SecretCode,
	}
	if p.URL != "" {
		f["photoUrl"] = p.URL
	}
	if p.Base64 != "" {
		f["photoBase64"] = p.Base64
	}
	return f
}
