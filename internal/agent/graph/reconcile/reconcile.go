package reconcile

import (
	"github.com/peoplebot-poc/server/internal/agent/model"
)

// Fixed user-facing texts. The channel audience is Turkish, so these stay
// Turkish regardless of the resolved locale.
const (
	NotFoundWithPhoneText = "Numaranızla eşleşen kayıt bulamadım; ad-soyad ve okul/bölüm bilgisini paylaşır mısınız?"
	NotFoundText          = "Size yardımcı olabilmem için ad-soyad ve okul/bölüm bilgisini paylaşır mısınız?"
	TechnicalIssueText    = "Şu an teknik bir sorun oluştu. Lütfen daha sonra tekrar dener misiniz?"
)

const (
	defaultIntent      = "genel"
	notFoundConfidence = 0.3
)

// NotFound builds the short-circuit response for an unresolved sender. The
// wording asks for a name when we at least had a phone to try, and introduces
// itself otherwise.
func NotFound(hadPhone bool, localeUsed, requestID string) *model.ChatResponse {
	reply := NotFoundText
	if hadPhone {
		reply = NotFoundWithPhoneText
	}
	return &model.ChatResponse{
		GeneratedAnswer: model.GeneratedAnswer{
			AnswerText: reply,
			Intent:     defaultIntent,
			Confidence: notFoundConfidence,
			References: []model.Reference{},
		},
		Meta: model.ResponseMeta{
			LocaleUsed:     localeUsed,
			RequestID:      requestID,
			Match:          model.MatchNone,
			PersonNotFound: true,
		},
	}
}

// Fallback builds the apology response used when generation or parsing
// failed. The resolved person still gets referenced so the caller can tell
// resolution succeeded.
func Fallback(res *model.Resolution, requestID string) *model.ChatResponse {
	refs := []model.Reference{}
	if res.Person != nil {
		refs = append(refs, model.Reference{Source: model.ReferenceSourcePeople, PersonID: res.Person.PersonID})
	}
	return &model.ChatResponse{
		GeneratedAnswer: model.GeneratedAnswer{
			AnswerText: TechnicalIssueText,
			Intent:     defaultIntent,
			Confidence: 0,
			References: refs,
		},
		Meta: model.ResponseMeta{
			LocaleUsed: res.LocaleUsed,
			RequestID:  requestID,
			Match:      res.Match,
			Fallback:   true,
		},
	}
}

// Finalize turns a parsed model answer into the outbound response: duplicate
// references collapse while keeping first-seen order, and the resolved person
// is always referenced even when the model forgot to cite it.
func Finalize(answer *model.GeneratedAnswer, res *model.Resolution, requestID string) *model.ChatResponse {
	refs := dedupe(answer.References)
	if res.Person != nil && !contains(refs, model.ReferenceSourcePeople, res.Person.PersonID) {
		refs = append(refs, model.Reference{Source: model.ReferenceSourcePeople, PersonID: res.Person.PersonID})
	}
	return &model.ChatResponse{
		GeneratedAnswer: model.GeneratedAnswer{
			AnswerText: answer.AnswerText,
			Intent:     answer.Intent,
			Confidence: answer.Confidence,
			References: refs,
		},
		Meta: model.ResponseMeta{
			LocaleUsed: res.LocaleUsed,
			RequestID:  requestID,
			Match:      res.Match,
		},
	}
}

func dedupe(refs []model.Reference) []model.Reference {
	out := make([]model.Reference, 0, len(refs))
	seen := make(map[model.Reference]struct{}, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func contains(refs []model.Reference, source, personID string) bool {
	for _, r := range refs {
		if r.Source == source && r.PersonID == personID {
			return true
		}
	}
	return false
}
