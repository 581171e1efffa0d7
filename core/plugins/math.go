package plugins

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Intent patterns for CanHandle
var mathIntentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*[+\-*/^%]\s*\d+`),
	regexp.MustCompile(`(?i)calculate|math|solve|compute|evaluate`),
	regexp.MustCompile(`(?i)what is \d+`),
	regexp.MustCompile(`\d+\s*[+\-*/]\s*\d+\s*=`),
	regexp.MustCompile(`(?i)sqrt|sin|cos|tan|log|ln`),
}

// Extraction patterns for Execute
var (
	mathRunPattern    = regexp.MustCompile(`[\d+\-*/^().\s]+(?:[+\-*/^][\d+\-*/^().\s]+)+`)
	mathWhatIsPattern = regexp.MustCompile(`(?i)what is (.+?)(?:\?|$)`)
	mathVerbPattern   = regexp.MustCompile(`(?i)(?:calculate|compute|evaluate|solve)\s+(.+?)(?:\?|$)`)

	mathValidChars = regexp.MustCompile(`^[+\-*/^().\s\w]+$`)
	mathHasDigit   = regexp.MustCompile(`\d`)
)

// mathFuncs is the restricted function vocabulary available to
// expressions. Anything outside it fails compilation and is reported as
// an invalid expression.
var mathFuncs = map[string]any{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"log":  math.Log,
	"ln":   math.Log,
}

// MathPlugin evaluates arithmetic expressions found in a message
type MathPlugin struct {
	programs *lru.Cache[string, *vm.Program]
}

// NewMathPlugin creates the math plugin
func NewMathPlugin() *MathPlugin {
	// Cache size bounds memory for repeated expressions; misses just
	// recompile.
	programs, _ := lru.New[string, *vm.Program](256)
	return &MathPlugin{programs: programs}
}

func (p *MathPlugin) Name() string { return "Math" }

func (p *MathPlugin) Description() string {
	return "Evaluate mathematical expressions and solve calculations"
}

// CanHandle reports whether the message looks like a calculation request
func (p *MathPlugin) CanHandle(message string) bool {
	for _, pattern := range mathIntentPatterns {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}

// Execute extracts candidate expressions and evaluates each one. Every
// candidate yields either a result entry or an error entry; a message
// with no candidates yields a single top-level error object.
func (p *MathPlugin) Execute(ctx context.Context, message string) (any, error) {
	expressions := p.extractExpressions(message)

	if len(expressions) == 0 {
		return map[string]any{
			"error":   "No mathematical expression found",
			"message": "Please provide a mathematical expression to evaluate",
		}, nil
	}

	calculations := make([]map[string]any, 0, len(expressions))
	for _, candidate := range expressions {
		result, err := p.evaluate(candidate)
		if err != nil {
			calculations = append(calculations, map[string]any{
				"expression": candidate,
				"error":      "Invalid mathematical expression",
				"message":    err.Error(),
			})
			continue
		}

		calculations = append(calculations, map[string]any{
			"expression": candidate,
			"result":     result,
			"formatted":  formatResult(result),
		})
	}

	return map[string]any{
		"calculations": calculations,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// extractExpressions collects candidates from three independent
// patterns and dedupes them by exact string, first occurrence first.
// Overlapping candidates from different patterns ("2+2" and "is 2+2")
// are both kept; downstream consumers only see per-expression results.
func (p *MathPlugin) extractExpressions(message string) []string {
	var candidates []string

	for _, match := range mathRunPattern.FindAllString(message, -1) {
		if trimmed := strings.TrimSpace(match); trimmed != "" {
			candidates = append(candidates, trimmed)
		}
	}

	for _, match := range mathWhatIsPattern.FindAllStringSubmatch(message, -1) {
		if candidate := strings.TrimSpace(match[1]); isCandidateExpression(candidate) {
			candidates = append(candidates, candidate)
		}
	}

	for _, match := range mathVerbPattern.FindAllStringSubmatch(message, -1) {
		if candidate := strings.TrimSpace(match[1]); isCandidateExpression(candidate) {
			candidates = append(candidates, candidate)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}

	return unique
}

func isCandidateExpression(candidate string) bool {
	return candidate != "" &&
		mathValidChars.MatchString(candidate) &&
		mathHasDigit.MatchString(candidate)
}

// evaluate compiles and runs a single candidate against the restricted
// function environment. Compiled programs are cached; evaluation is
// pure, so caching is invisible to callers.
func (p *MathPlugin) evaluate(candidate string) (any, error) {
	program, ok := p.programs.Get(candidate)
	if !ok {
		var err error
		program, err = expr.Compile(candidate, expr.Env(mathFuncs))
		if err != nil {
			return nil, err
		}
		p.programs.Add(candidate, program)
	}

	return expr.Run(program, mathFuncs)
}

// formatResult renders a numeric result rounded to 6 decimal places
// with any trailing integer fraction dropped ("3.000000" -> "3").
func formatResult(result any) string {
	switch v := result.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprintf("%v", result)
	}
}

func formatFloat(v float64) string {
	rounded := math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
