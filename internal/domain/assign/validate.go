package assign

import (
	"regexp"
	"slices"

	"github.com/samber/lo"

	"github.com/okian/secretsanta/internal/domain/model"
)

// emailPattern is a structural check only: local-part, '@', host and at least one dotted suffix.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9]+)+$`)

// ValidEmail reports whether addr looks like a deliverable address.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// Validate runs every pre-draw check and returns the folded exclusion sets.
// Checks run in a fixed order so the first reported error is stable:
// duplicate names, email syntax, participant count, unknown names, starved santas.
func Validate(participants []model.Participant, exclusions model.Exclusions) (map[string]map[string]struct{}, error) {
	known := make(map[string]model.Participant, len(participants))
	for _, p := range participants {
		if prev, dup := known[p.Key()]; dup {
			return nil, model.NewConfigError(model.ErrDuplicateParticipant, p.Name,
				"%s is listed more than once (clashes with %s). Names are compared ignoring case.", p.Name, prev.Name)
		}
		known[p.Key()] = p
	}

	for _, p := range participants {
		if !ValidEmail(p.Email) {
			return nil, model.NewConfigError(model.ErrInvalidEmail, p.Name,
				"%s has an invalid email: %s.", p.Name, p.Email)
		}
	}

	n := len(participants)
	if n < 2 {
		return nil, model.NewConfigError(model.ErrTooFewParticipants, "",
			"at least 2 participants are required, got %d.", n)
	}

	// Walk santas in a stable order so the reported entry does not depend on map iteration.
	santas := lo.Keys(exclusions)
	slices.Sort(santas)

	for _, santa := range santas {
		if _, ok := known[model.NameKey(santa)]; !ok {
			return nil, model.NewConfigError(model.ErrUnknownSanta, santa,
				"Unknown santa in exclusion list: %s. Please check spelling.", santa)
		}
		for _, recipient := range exclusions[santa] {
			if _, ok := known[model.NameKey(recipient)]; !ok {
				return nil, model.NewConfigError(model.ErrUnknownRecipient, recipient,
					"Unknown excluded recipient for %s: %s. Please check spelling.", santa, recipient)
			}
		}
	}

	folded := exclusions.Normalize()
	for _, santa := range santas {
		key := model.NameKey(santa)
		excluded := lo.CountBy(lo.Keys(folded[key]), func(r string) bool { return r != key })
		if n-1-excluded <= 0 {
			return nil, model.NewConfigError(model.ErrNoFeasibleRecipient, known[key].Name,
				"%s has no option for a recipient! Check the exclusion list in the configuration file.", known[key].Name)
		}
	}

	return folded, nil
}
