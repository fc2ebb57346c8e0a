// Package render assembles the final resume document. Rendering is a pure
// function of its input: the same customized resume always produces the
// same bytes.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tailorcv/tailorcv/internal/types"
)

// Markdown renders the customized resume as a Markdown document.
func Markdown(resume *types.CustomizedResume) string {
	var sb strings.Builder

	writeHeader(&sb, resume.Basics)

	if resume.Summary != "" {
		sb.WriteString("## Summary\n\n")
		sb.WriteString(resume.Summary)
		sb.WriteString("\n\n")
	}

	if len(resume.Roles) > 0 {
		sb.WriteString("## Experience\n\n")
		for _, role := range sortedRoles(resume.Roles) {
			writeRole(&sb, role)
		}
	}

	if len(resume.Projects) > 0 {
		sb.WriteString("## Projects\n\n")
		for _, project := range sortedProjects(resume.Projects) {
			writeProject(&sb, project)
		}
	}

	if len(resume.Education) > 0 {
		sb.WriteString("## Education\n\n")
		for _, edu := range resume.Education {
			writeEducation(&sb, edu)
		}
	}

	if len(resume.Certificates) > 0 {
		sb.WriteString("## Certificates\n\n")
		for _, cert := range resume.Certificates {
			writeCertificate(&sb, cert)
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeHeader(sb *strings.Builder, basics types.Basics) {
	fmt.Fprintf(sb, "# %s\n\n", basics.Name)

	var contact []string
	if basics.Email != "" {
		contact = append(contact, basics.Email)
	}
	if basics.Phone != "" {
		contact = append(contact, basics.Phone)
	}
	if loc := formatLocation(basics.Location); loc != "" {
		contact = append(contact, loc)
	}
	if basics.LinkedIn != "" {
		contact = append(contact, fmt.Sprintf("[LinkedIn](%s)", basics.LinkedIn))
	}
	if len(contact) > 0 {
		sb.WriteString(strings.Join(contact, " | "))
		sb.WriteString("\n\n")
	}
}

func formatLocation(loc types.Location) string {
	switch {
	case loc.City != "" && loc.Province != "":
		return loc.City + ", " + loc.Province
	case loc.City != "":
		return loc.City
	default:
		return loc.Province
	}
}

func writeRole(sb *strings.Builder, role types.RoleRecord) {
	fmt.Fprintf(sb, "### %s | %s\n\n", role.Title, role.Company)

	meta := formatDateRange(role.StartDate, role.EndDate)
	if role.Location != "" {
		meta += " | " + role.Location
	}
	if meta != "" {
		sb.WriteString(meta)
		sb.WriteString("\n\n")
	}

	for _, sentence := range role.Sentences {
		fmt.Fprintf(sb, "- %s\n", sentence.Text)
	}
	if len(role.Sentences) > 0 {
		sb.WriteString("\n")
	}
}

func writeProject(sb *strings.Builder, project types.ProjectRecord) {
	fmt.Fprintf(sb, "### %s\n\n", project.Name)

	if meta := formatDateRange(project.StartDate, project.EndDate); meta != "" {
		sb.WriteString(meta)
		sb.WriteString("\n\n")
	}

	for _, sentence := range project.Sentences {
		fmt.Fprintf(sb, "- %s\n", sentence.Text)
	}
	if len(project.Sentences) > 0 {
		sb.WriteString("\n")
	}
}

func writeEducation(sb *strings.Builder, edu types.Education) {
	line := edu.Degree
	if edu.FieldOfStudy != "" {
		line += " in " + edu.FieldOfStudy
	}
	fmt.Fprintf(sb, "- **%s**, %s", line, edu.Institution)
	if edu.YearOfCompletion != "" {
		fmt.Fprintf(sb, " (%s)", edu.YearOfCompletion)
	}
	sb.WriteString("\n")
}

func writeCertificate(sb *strings.Builder, cert types.Certificate) {
	fmt.Fprintf(sb, "- **%s**", cert.Name)
	if cert.Organization != "" {
		fmt.Fprintf(sb, ", %s", cert.Organization)
	}
	if cert.DateOfIssue != "" {
		fmt.Fprintf(sb, " (%s)", cert.DateOfIssue)
	}
	sb.WriteString("\n")
}

func formatDateRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return fmt.Sprintf("*%s - %s*", start, end)
}

// dateOrder ranks a date for sorting. "Present" and "current" rank newest;
// unparseable dates report false and sort last.
func dateOrder(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "present") || strings.EqualFold(s, "current") {
		return time.Unix(1<<62, 0), true
	}
	for _, layout := range []string{"Jan 2006", "January 2006", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortedRoles(roles []types.RoleRecord) []types.RoleRecord {
	sorted := append([]types.RoleRecord(nil), roles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateLess(sorted[j].StartDate, sorted[j].EndDate, sorted[i].StartDate, sorted[i].EndDate)
	})
	return sorted
}

func sortedProjects(projects []types.ProjectRecord) []types.ProjectRecord {
	sorted := append([]types.ProjectRecord(nil), projects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateLess(sorted[j].StartDate, sorted[j].EndDate, sorted[i].StartDate, sorted[i].EndDate)
	})
	return sorted
}

// dateLess reports whether entry a (start/end) sorts before entry b in
// ascending start-date order. Callers invert the arguments to sort
// descending. Equal start dates fall back to end-date recency; sorting is
// stable beyond that.
func dateLess(aStart, aEnd, bStart, bEnd string) bool {
	as, aok := dateOrder(aStart)
	bs, bok := dateOrder(bStart)
	if aok != bok {
		// Parseable dates sort ahead of unparseable ones in the final
		// descending order.
		return !aok
	}
	if !aok {
		return false
	}
	if !as.Equal(bs) {
		return as.Before(bs)
	}
	ae, aok2 := dateOrder(aEnd)
	be, bok2 := dateOrder(bEnd)
	if aok2 && bok2 {
		return ae.Before(be)
	}
	return false
}
