package service

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

const (
	maxNameLen        = 50
	maxDescriptionLen = 500
	maxPhoneLen       = 20
	minRating         = 1
	maxRating         = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// validateBootcamp checks a full record before Create. Every violated rule is
// reported, not just the first.
func validateBootcamp(b domain.Bootcamp) error {
	var v validator
	v.name(&b.Name, true)
	v.description(&b.Description, true)
	v.website(&b.Website)
	v.phone(&b.Phone)
	v.email(&b.Email)
	if strings.TrimSpace(b.Address) == "" {
		v.add("Please add an address")
	}
	v.careers(&b.Careers, true)
	v.rating(b.AverageRating)
	v.cost(b.AverageCost)
	return v.err()
}

// validatePatch checks only the fields a patch sets.
func validatePatch(p domain.BootcampPatch) error {
	var v validator
	v.name(p.Name, false)
	v.description(p.Description, false)
	v.website(p.Website)
	v.phone(p.Phone)
	v.email(p.Email)
	if p.Address != nil && strings.TrimSpace(*p.Address) == "" {
		v.add("Please add an address")
	}
	v.careers(p.Careers, false)
	v.rating(p.AverageRating)
	v.cost(p.AverageCost)
	return v.err()
}

// validator accumulates rule violations. Nil pointers are skipped unless the
// field is required.
type validator struct {
	msgs []string
}

func (v *validator) add(msg string) { v.msgs = append(v.msgs, msg) }

func (v *validator) err() error {
	if len(v.msgs) == 0 {
		return nil
	}
	return domain.ValidationError{Messages: v.msgs}
}

func (v *validator) name(s *string, required bool) {
	switch {
	case s == nil:
		if required {
			v.add("Please add a name")
		}
	case strings.TrimSpace(*s) == "":
		v.add("Please add a name")
	case utf8.RuneCountInString(*s) > maxNameLen:
		v.add(fmt.Sprintf("Name can not be more than %d characters", maxNameLen))
	}
}

func (v *validator) description(s *string, required bool) {
	switch {
	case s == nil:
		if required {
			v.add("Please add a description")
		}
	case strings.TrimSpace(*s) == "":
		v.add("Please add a description")
	case utf8.RuneCountInString(*s) > maxDescriptionLen:
		v.add(fmt.Sprintf("Description can not be more than %d characters", maxDescriptionLen))
	}
}

func (v *validator) website(s *string) {
	if s == nil || *s == "" {
		return
	}
	u, err := url.Parse(*s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.add("Please use a valid URL with HTTP or HTTPS")
	}
}

func (v *validator) phone(s *string) {
	if s != nil && utf8.RuneCountInString(*s) > maxPhoneLen {
		v.add(fmt.Sprintf("Phone number can not be longer than %d characters", maxPhoneLen))
	}
}

func (v *validator) email(s *string) {
	if s != nil && *s != "" && !emailPattern.MatchString(*s) {
		v.add("Please add a valid email")
	}
}

func (v *validator) careers(c *[]string, required bool) {
	if c == nil {
		if required {
			v.add("Please add at least one career")
		}
		return
	}
	if len(*c) == 0 {
		v.add("Please add at least one career")
		return
	}
	for _, career := range *c {
		if !slices.Contains(domain.Careers, career) {
			v.add(fmt.Sprintf("%q is not a supported career", career))
		}
	}
}

func (v *validator) rating(r *float64) {
	if r != nil && (*r < minRating || *r > maxRating) {
		v.add(fmt.Sprintf("Rating must be between %d and %d", minRating, maxRating))
	}
}

func (v *validator) cost(c *float64) {
	if c != nil && *c < 0 {
		v.add("Average cost can not be negative")
	}
}

// Slugify lowercases name and joins its alphanumeric runs with hyphens.
// "Devworks Bootcamp!" becomes "devworks-bootcamp".
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
