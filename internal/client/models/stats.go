package models

// ReadingStats is the per-user aggregate over book records. It is always
// recomputed from the full record set, never adjusted incrementally, so the
// counts cannot drift from the records once a recomputation lands.
type ReadingStats struct {
	Total       int    `json:"total"`
	Reading     int    `json:"reading"`
	Completed   int    `json:"completed"`
	ToRead      int    `json:"toRead"`
	LastUpdated string `json:"lastUpdated"`
}

// CountByStatus derives the aggregate from a set of records. LastUpdated is
// left empty; the store stamps it on write.
func CountByStatus(books []Book) ReadingStats {
	s := ReadingStats{Total: len(books)}
	for _, b := range books {
		switch b.Status {
		case StatusReading:
			s.Reading++
		case StatusCompleted:
			s.Completed++
		case StatusToRead:
			s.ToRead++
		}
	}
	return s
}

// Doc converts the aggregate into document fields, excluding LastUpdated
// so the caller can stamp it with the server clock.
func (s ReadingStats) Doc() map[string]any {
	return map[string]any{
		"total":     s.Total,
		"reading":   s.Reading,
		"completed": s.Completed,
		"toRead":    s.ToRead,
	}
}

// StatsFromDoc builds ReadingStats from a stored document. JSON numbers
// arrive as float64.
func StatsFromDoc(doc map[string]any) ReadingStats {
	return ReadingStats{
		Total:       docInt(doc, "total"),
		Reading:     docInt(doc, "reading"),
		Completed:   docInt(doc, "completed"),
		ToRead:      docInt(doc, "toRead"),
		LastUpdated: docString(doc, "lastUpdated"),
	}
}

func docInt(doc map[string]any, key string) int {
	switch v := doc[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
