// Package gedcom writes family trees in the GEDCOM 5.5.1 lineage-linked
// format.
package gedcom

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/microcosm-cc/bluemonday"
)

// Version is the GEDCOM version written to the header.
const Version = "5.5.1"

// maxLineValue is the number of characters a line value may hold before it
// continues on a CONC line.
const maxLineValue = 200

// Header describes the exported file.
type Header struct {
	// Source is the name of the exporting system.
	Source string
	// TreeName is written as the header note.
	TreeName string
	// Date is the transmission date.
	Date time.Time
}

// Family groups the children that share the same set of parents.
type Family struct {
	Parents  []int64
	Children []int64
}

var stripTags = bluemonday.StrictPolicy()

// Families derives family records from the "parent" relationships. Children
// with the same parents share one family. Families are ordered by their first
// child in the order of persons. Relationships naming unknown persons are
// ignored.
func Families(persons []models.Person, rels []models.Relationship) []Family {
	known := make(map[int64]bool, len(persons))
	for _, p := range persons {
		known[p.ID] = true
	}

	parents := make(map[int64][]int64)
	for _, r := range rels {
		if r.RelationType != models.RelationParent {
			continue
		}
		if !known[r.PersonID] || !known[r.RelatedPersonID] {
			continue
		}
		ps := parents[r.RelatedPersonID]
		if !contains(ps, r.PersonID) {
			parents[r.RelatedPersonID] = append(ps, r.PersonID)
		}
	}

	var fams []Family
	index := make(map[string]int)
	for _, p := range persons {
		ps, ok := parents[p.ID]
		if !ok {
			continue
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })

		key := familyKey(ps)
		i, ok := index[key]
		if !ok {
			i = len(fams)
			index[key] = i
			fams = append(fams, Family{Parents: ps})
		}
		fams[i].Children = append(fams[i].Children, p.ID)
	}

	return fams
}

// Export writes persons and their parent relationships to w. Every person
// becomes an INDI record and every family a FAM record. A family has at most
// one HUSB and one WIFE. Parents are placed by gender and parents beyond the
// second are left out of the family record.
func Export(w io.Writer, h Header, persons []models.Person, rels []models.Relationship) error {
	e := &encoder{w: bufio.NewWriter(w)}

	fams := Families(persons, rels)
	famc := make(map[int64][]int)
	famsOf := make(map[int64][]int)
	byID := make(map[int64]models.Person, len(persons))
	for _, p := range persons {
		byID[p.ID] = p
	}
	for i, f := range fams {
		for _, c := range f.Children {
			famc[c] = append(famc[c], i)
		}
		for _, p := range f.Parents {
			famsOf[p] = append(famsOf[p], i)
		}
	}

	e.header(h)

	for _, p := range persons {
		e.line(0, indiRef(p.ID), "INDI")
		e.line(1, "", "NAME", name(p))
		if p.Gender.Valid {
			e.line(1, "", "SEX", sex(p.Gender.String))
		}
		if p.BirthDate.Valid {
			e.line(1, "", "BIRT")
			e.line(2, "", "DATE", p.BirthDate.String)
		}
		if p.DeathDate.Valid {
			e.line(1, "", "DEAT")
			e.line(2, "", "DATE", p.DeathDate.String)
		}
		if p.Biography.Valid {
			if note := plainText(p.Biography.String); note != "" {
				e.text(1, "NOTE", note)
			}
		}
		for _, i := range famc[p.ID] {
			e.line(1, "", "FAMC", famRef(i))
		}
		for _, i := range famsOf[p.ID] {
			e.line(1, "", "FAMS", famRef(i))
		}
	}

	for i, f := range fams {
		e.line(0, famRef(i), "FAM")
		husb, wife := spouses(f.Parents, byID)
		if husb != 0 {
			e.line(1, "", "HUSB", indiRef(husb))
		}
		if wife != 0 {
			e.line(1, "", "WIFE", indiRef(wife))
		}
		for _, c := range f.Children {
			e.line(1, "", "CHIL", indiRef(c))
		}
	}

	e.line(0, "", "TRLR")

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) header(h Header) {
	e.line(0, "", "HEAD")
	if h.Source != "" {
		e.line(1, "", "SOUR", strings.ToUpper(h.Source))
	}
	if !h.Date.IsZero() {
		e.line(1, "", "DATE", Date(h.Date))
	}
	e.line(1, "", "GEDC")
	e.line(2, "", "VERS", Version)
	e.line(2, "", "FORM", "LINEAGE-LINKED")
	e.line(1, "", "CHAR", "UTF-8")
	if h.TreeName != "" {
		e.text(1, "NOTE", h.TreeName)
	}
}

func (e *encoder) line(level int, xref, tag string, value ...string) {
	if e.err != nil {
		return
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(level))
	if xref != "" {
		b.WriteByte(' ')
		b.WriteString(xref)
	}
	b.WriteByte(' ')
	b.WriteString(tag)
	for _, v := range value {
		if v == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(v)
	}
	b.WriteByte('\n')

	_, e.err = e.w.WriteString(b.String())
}

// text writes a multi-line value using CONT for line breaks and CONC for
// long lines.
func (e *encoder) text(level int, tag, value string) {
	first := true
	for _, l := range strings.Split(value, "\n") {
		chunks := split(strings.TrimRight(l, "\r"), maxLineValue)
		for i, c := range chunks {
			switch {
			case first:
				e.line(level, "", tag, c)
				first = false
			case i == 0:
				e.line(level+1, "", "CONT", c)
			default:
				e.line(level+1, "", "CONC", c)
			}
		}
	}
}

// Date formats t the way GEDCOM dates are written, e.g. "2 JAN 2006".
func Date(t time.Time) string {
	return strings.ToUpper(t.Format("2 Jan 2006"))
}

func name(p models.Person) string {
	if p.LastName.Valid {
		return fmt.Sprintf("%s /%s/", p.FirstName, p.LastName.String)
	}
	return p.FirstName
}

func sex(g string) string {
	switch strings.ToLower(g) {
	case "male", "m":
		return "M"
	case "female", "f":
		return "F"
	default:
		return "U"
	}
}

// spouses picks the HUSB and WIFE of a family. Unknown genders fill
// whichever slot is free.
func spouses(parents []int64, persons map[int64]models.Person) (husb, wife int64) {
	var rest []int64
	for _, id := range parents {
		switch sex(persons[id].Gender.String) {
		case "M":
			if husb == 0 {
				husb = id
				continue
			}
		case "F":
			if wife == 0 {
				wife = id
				continue
			}
		}
		rest = append(rest, id)
	}
	for _, id := range rest {
		switch {
		case husb == 0:
			husb = id
		case wife == 0:
			wife = id
		}
	}
	return husb, wife
}

// plainText strips markup from a biography.
func plainText(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "<br/>", "\n")
	s = strings.ReplaceAll(s, "</p>", "</p>\n")
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(s)))
}

// split cuts s into chunks of at most n runes. An empty s is one empty
// chunk.
func split(s string, n int) []string {
	if utf8.RuneCountInString(s) <= n {
		return []string{s}
	}

	var chunks []string
	runes := []rune(s)
	for len(runes) > n {
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func indiRef(id int64) string {
	return "@I" + strconv.FormatInt(id, 10) + "@"
}

func famRef(i int) string {
	return "@F" + strconv.Itoa(i+1) + "@"
}

func familyKey(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
