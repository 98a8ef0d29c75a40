package imdi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vvka-141/imdix/pkg/imdix"
)

var (
	exactYear       = regexp.MustCompile(`^(\d{4})$`)
	approximateYear = regexp.MustCompile(`^~\s*(\d{4})$`)
)

type birth struct {
	date string
	age  string
}

// birth interprets the birthYear field.
//
//	1960   BirthDate 1960,        Age ref-1960
//	~1960  BirthDate 1959/1961,   Age range over both ends
//	other  Unspecified for both, with a warning naming the person
//
// The first approximate year of a run raises a single notice.
func (g *Generator) birth(person *imdix.Folder) birth {
	raw := strings.TrimSpace(person.Text("birthYear"))
	ref := g.opts.ReferenceDate.Year()

	if raw == "" {
		return birth{date: imdix.Unspecified, age: imdix.Unspecified}
	}

	if m := exactYear.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		return birth{date: m[1], age: age(ref - year)}
	}

	if m := approximateYear.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		if !g.approximateNoticed {
			g.approximateNoticed = true
			g.warn("Some birth years are approximate (~YYYY); they are exported as a one-year range on either side")
		}
		youngest, oldest := ref-(year+1), ref-(year-1)
		a := imdix.Unspecified
		if youngest >= 0 {
			a = fmt.Sprintf("%d-%d", youngest, oldest)
		}
		return birth{date: fmt.Sprintf("%d/%d", year-1, year+1), age: a}
	}

	g.warn("%s: birth year %q is not a year; exported as %s", person.DisplayName(), raw, imdix.Unspecified)
	return birth{date: imdix.Unspecified, age: imdix.Unspecified}
}

func age(years int) string {
	if years < 0 {
		return imdix.Unspecified
	}
	return strconv.Itoa(years)
}
