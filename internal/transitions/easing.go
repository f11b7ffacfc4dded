package transitions

import "strings"

// Easing remaps for the normalized progress variable P. Each form is a
// monotonic map of [0,1] onto itself expressed in the engine's expression
// grammar.
const (
	easeInExpr    = "pow(P,3)"
	easeOutExpr   = "(1-pow(1-P,3))"
	easeExpr      = "if(lt(P,0.5),2*P*P,1-pow(-2*P+2,2)/2)"
	easeInOutExpr = "if(lt(P,0.5),4*pow(P,3),1-pow(-2*P+2,3)/2)"
)

// easingExpr returns the replacement expression for a named easing mode, or
// "" when the mode is unknown or absent.
func easingExpr(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "ease-in":
		return easeInExpr
	case "ease-out":
		return easeOutExpr
	case "ease":
		return easeExpr
	case "ease-in-out":
		return easeInOutExpr
	default:
		return ""
	}
}

// ApplyEasing rewrites every standalone occurrence of P in a custom blend
// expression with the easing remap. Occurrences inside longer identifiers
// (pow, PHI, ...) are left alone.
func ApplyEasing(expr, mode string) string {
	remap := easingExpr(mode)
	if remap == "" || expr == "" {
		return expr
	}

	var b strings.Builder
	b.Grow(len(expr) + len(remap)*4)
	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		if ch != 'P' {
			b.WriteByte(ch)
			continue
		}
		prevOK := i == 0 || !isIdentChar(expr[i-1])
		nextOK := i == len(expr)-1 || !isIdentChar(expr[i+1])
		if prevOK && nextOK {
			b.WriteString(remap)
		} else {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func isIdentChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == '_':
		return true
	}
	return false
}
