package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/caphetech/wfcatalog/internal/metadata"
)

// RequiredFields must be present and truthy in every metadata document.
var RequiredFields = []string{
	"name",
	"description",
	"category",
	"difficulty",
	"tags",
	"integrations",
	"useCase",
	"requirements",
	"estimatedSetupTime",
	"version",
	"author",
	"lastUpdated",
}

// RecommendedFields raise a warning when absent.
var RecommendedFields = []string{"pricing", "support"}

// Categories is the standard category list.
var Categories = []string{
	"Healthcare",
	"Customer Service",
	"Data Analytics",
	"General Utilities",
	"IT Development",
	"Content Media",
	"Marketing & Sales",
	"Finance & Accounting",
	"Human Resources",
	"Operations & Logistics",
	"E-commerce",
	"Education",
}

// MinTags is the tag count below which a warning is raised.
const MinTags = 3

// MinDescriptionLength is the description length, in UTF-16 code units,
// below which a warning is raised.
const MinDescriptionLength = 100

var (
	tagPattern     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)
	datePattern    = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// ValidTag reports whether tag is lowercase words joined by single hyphens.
func ValidTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

// ValidVersion reports whether v is exactly X.Y.Z.
func ValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// ValidDate reports whether s has the shape YYYY-MM-DD. The calendar is
// not checked.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// IsStandardCategory reports whether name is in Categories (case-sensitive).
func IsStandardCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// textLength counts UTF-16 code units, the unit the description length
// guideline is written in.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// finding is one rule outcome before it is attached to a file.
type finding struct {
	severity Severity
	message  string
}

// rule inspects a decoded document. Rules are independent; every rule runs
// on every document.
type rule func(doc *metadata.Document) []finding

var rules = []rule{
	checkRequired,
	checkDifficulty,
	checkCategory,
	checkTags,
	checkVersion,
	checkLastUpdated,
	checkDescription,
	checkRecommended,
}

func errorf(format string, args ...any) finding {
	return finding{severity: SeverityError, message: fmt.Sprintf(format, args...)}
}

func warnf(format string, args ...any) finding {
	return finding{severity: SeverityWarning, message: fmt.Sprintf(format, args...)}
}

func checkRequired(doc *metadata.Document) []finding {
	var out []finding
	for _, field := range RequiredFields {
		if !doc.Truthy(field) {
			out = append(out, errorf("Missing required field \"%s\"", field))
		}
	}
	return out
}

func checkDifficulty(doc *metadata.Document) []finding {
	v := doc.Difficulty.String()
	if v == "" || metadata.IsKnownDifficulty(strings.ToLower(v)) {
		return nil
	}
	return []finding{errorf("Invalid difficulty \"%s\" (must be beginner, intermediate, or advanced)", v)}
}

func checkCategory(doc *metadata.Document) []finding {
	v := doc.Category.String()
	if v == "" || IsStandardCategory(v) {
		return nil
	}
	return []finding{warnf("Category \"%s\" not in standard list", v)}
}

func checkTags(doc *metadata.Document) []finding {
	if !doc.Truthy("tags") {
		return nil
	}

	var out []finding
	if len(doc.Tags) < MinTags {
		out = append(out, warnf("Should have at least %d tags (currently %d)", MinTags, len(doc.Tags)))
	}
	for _, tag := range doc.Tags {
		if !ValidTag(tag) {
			out = append(out, warnf("Tag \"%s\" should be lowercase-with-hyphens format", tag))
		}
	}
	return out
}

func checkVersion(doc *metadata.Document) []finding {
	v := doc.Version.String()
	if v == "" || ValidVersion(v) {
		return nil
	}
	return []finding{errorf("Invalid version format \"%s\" (should be X.Y.Z)", v)}
}

func checkLastUpdated(doc *metadata.Document) []finding {
	v := doc.LastUpdated.String()
	if v == "" || ValidDate(v) {
		return nil
	}
	return []finding{warnf("lastUpdated should be in YYYY-MM-DD format")}
}

func checkDescription(doc *metadata.Document) []finding {
	v := doc.Description.String()
	if v == "" {
		return nil
	}
	if n := textLength(v); n < MinDescriptionLength {
		return []finding{warnf("Description is too short (%d chars, recommend 150-300)", n)}
	}
	return nil
}

func checkRecommended(doc *metadata.Document) []finding {
	var out []finding
	for _, field := range RecommendedFields {
		if !doc.Truthy(field) {
			out = append(out, warnf("Missing recommended field \"%s\"", field))
		}
	}
	return out
}
