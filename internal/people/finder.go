package people

import (
	"regexp"
	"strings"
	"unicode/utf8"

	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Match kinds reported by Resolve.
const (
	MatchPhone = "phone"
	MatchName  = "name"
	MatchNone  = "none"
)

// Finder resolves incoming phone/name hints against a snapshot of the People
// table. Phone is authoritative, name is advisory.
type Finder struct {
	phones    PhoneNormalizer
	threshold float64
}

// NewFinder builds a Finder with the given phone normalization policy and
// name-match threshold (<= 0 selects DefaultMatchThreshold).
func NewFinder(phones PhoneNormalizer, threshold float64) *Finder {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Finder{phones: phones, threshold: threshold}
}

// FindByPhone returns the first record whose normalized stored phone equals
// the normalized input, or nil. Linear scan; the table is small.
func (f *Finder) FindByPhone(records []PersonRecord, rawPhone string) *PersonRecord {
	if rawPhone == "" {
		return nil
	}
	want := f.phones.Normalize(rawPhone)
	if want == "" {
		return nil
	}
	for i := range records {
		if f.phones.Normalize(records[i].Phone) == want {
			rec := records[i]
			logx.Debug().Str("person_id", rec.PersonID).Msg("matched person by phone")
			return &rec
		}
	}
	return nil
}

// FindByName returns the record with the highest similarity to rawName over
// both full and preferred names, provided that maximum clears the threshold.
// Ties keep the first-seen record; the forward scan order is intentional and
// callers may depend on it.
func (f *Finder) FindByName(records []PersonRecord, rawName string) *PersonRecord {
	if rawName == "" {
		return nil
	}

	bestIdx := -1
	bestRatio := 0.0
	for i := range records {
		r := Ratio(rawName, records[i].FullName)
		if pr := Ratio(rawName, records[i].PreferredName); pr > r {
			r = pr
		}
		if r > bestRatio {
			bestRatio = r
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestRatio < f.threshold {
		logx.Debug().Str("name", rawName).Float64("best_ratio", bestRatio).Msg("no name match above threshold")
		return nil
	}
	rec := records[bestIdx]
	logx.Debug().Str("person_id", rec.PersonID).Float64("ratio", bestRatio).Msg("matched person by name")
	return &rec
}

// Resolve maps the supplied hints to at most one record and reports how the
// match was made. A phone match wins outright; name matching runs only when
// no phone was given or the phone missed.
func (f *Finder) Resolve(records []PersonRecord, rawPhone, rawName string) (*PersonRecord, string) {
	if rawPhone != "" {
		if rec := f.FindByPhone(records, rawPhone); rec != nil {
			return rec, MatchPhone
		}
	}
	if rawName != "" {
		if rec := f.FindByName(records, rawName); rec != nil {
			return rec, MatchName
		}
	}
	return nil, MatchNone
}

// Self-introduction patterns ("ben X", "benim adım X", "X olarak" ...).
// Best-effort: an accidental match just fails the fuzzy threshold later.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:ben|benim adım|adım)\s+([A-ZÇĞIİÖŞÜa-zçğıiöşü]+(?:\s+[A-ZÇĞIİÖŞÜa-zçğıiöşü]+)*)`),
	regexp.MustCompile(`(?i)([A-ZÇĞIİÖŞÜ][a-zçğıiöşü]+(?:\s+[A-ZÇĞIİÖŞÜ][a-zçğıiöşü]+)*)\s+(?:ben|olacağım|olarak)`),
}

// ExtractCandidateName pulls a likely self-introduced name out of free text.
// Returns the first capture longer than 2 runes, or "".
func ExtractCandidateName(message string) string {
	if message == "" {
		return ""
	}
	for _, p := range namePatterns {
		m := p.FindStringSubmatch(message)
		if len(m) < 2 {
			continue
		}
		name := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(name) > 2 {
			return name
		}
	}
	return ""
}
