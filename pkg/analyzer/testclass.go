package analyzer

import (
	"regexp"

	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

//nolint:gochecknoglobals // Compiled once.
var (
	testClassName  = regexp.MustCompile(`(?:Test|TestCase)$`)
	testParentName = regexp.MustCompile(`(?:Test|TestCase)(?:Interface)?$`)
)

// Region is a half-open slot range [Start, End) that a rule scans.
type Region struct {
	Start int
	End   int
}

// PHPUnitClasses returns the body of every PHPUnit test class, last class
// first so callers may rewrite inside one region without disturbing the
// slots of an earlier one. Start is the class "{" and End its "}".
//
// A class is a PHPUnit test class when it extends something and either its
// own name ends in Test or TestCase, or a name in its extends or implements
// clause ends in Test, TestCase, or TestInterface.
func PHPUnitClasses(tokens *phptoken.Tokens) ([]Region, error) {
	var regions []Region

	for i := range tokens.Len() {
		if tokens.At(i).Kind != phptoken.KindClass {
			continue
		}

		open, isTest := testClassBody(tokens, i)
		if !isTest {
			continue
		}

		closeBrace, err := tokens.MatchingBracket(open)
		if err != nil {
			return nil, err
		}
		regions = append(regions, Region{Start: open, End: closeBrace})
	}

	for left, right := 0, len(regions)-1; left < right; left, right = left+1, right-1 {
		regions[left], regions[right] = regions[right], regions[left]
	}

	return regions, nil
}

// testClassBody returns the "{" opening the body of the class declared at
// classIdx when that class is a PHPUnit test class.
func testClassBody(tokens *phptoken.Tokens, classIdx int) (int, bool) {
	nameIdx, ok := tokens.NextMeaningful(classIdx)
	if !ok || tokens.At(nameIdx).Kind != phptoken.KindIdentifier {
		return -1, false
	}

	isTest := testClassName.MatchString(tokens.At(nameIdx).Text)
	extends := false

	for i := nameIdx + 1; i < tokens.Len(); i++ {
		tok := tokens.At(i)
		switch {
		case tok.IsChar('{'):
			return i, extends && isTest
		case tok.IsChar(';'), tok.IsChar('}'):
			return -1, false
		case tok.Kind == phptoken.KindExtends:
			extends = true
		case tok.Kind == phptoken.KindIdentifier:
			if testParentName.MatchString(tok.Text) {
				isTest = true
			}
		}
	}

	return -1, false
}
