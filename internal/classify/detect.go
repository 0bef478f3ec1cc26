package classify

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/nhath/clipkeep/internal/clipboard"
)

// detector returns a label when it recognises a secret in text.
type detector func(text string, kind clipboard.Kind) (string, bool)

// detectors run in order; the first match wins.
var detectors = []detector{
	detectPEM,
	detectProviderKey,
	detectJWT,
	detectConnectionString,
	detectAssignment,
	detectPasswordLike,
	detectHighEntropy,
}

// Detect reports whether text looks like it carries a secret and, if so,
// which detector fired. Images are never passed here.
func Detect(text string, kind clipboard.Kind) (string, bool) {
	for _, d := range detectors {
		if label, ok := d(text, kind); ok {
			return label, true
		}
	}
	return "", false
}

var pemRe = regexp.MustCompile(`-----BEGIN (?:[A-Z0-9]+ )*PRIVATE KEY(?: BLOCK)?-----`)

func detectPEM(text string, _ clipboard.Kind) (string, bool) {
	if pemRe.MatchString(text) {
		return "private key block", true
	}
	return "", false
}

var providerKeys = []struct {
	label string
	re    *regexp.Regexp
}{
	{"Anthropic API key", regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{20,}`)},
	{"OpenAI API key", regexp.MustCompile(`\bsk-(?:proj-)?[A-Za-z0-9_-]{20,}`)},
	{"GitHub token", regexp.MustCompile(`\b(?:gh[pousr]_[A-Za-z0-9]{30,}|github_pat_[A-Za-z0-9_]{22,})`)},
	{"GitLab token", regexp.MustCompile(`\bglpat-[A-Za-z0-9_-]{20,}`)},
	{"AWS access key", regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"Google API key", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}`)},
	{"Google OAuth token", regexp.MustCompile(`\bya29\.[0-9A-Za-z_-]{20,}`)},
	{"Slack token", regexp.MustCompile(`\bxox[abposr]-[A-Za-z0-9-]{10,}`)},
	{"Stripe key", regexp.MustCompile(`\b[rs]k_(?:live|test)_[A-Za-z0-9]{16,}`)},
}

func detectProviderKey(text string, _ clipboard.Kind) (string, bool) {
	for _, p := range providerKeys {
		if p.re.MatchString(text) {
			return p.label, true
		}
	}
	return "", false
}

var jwtRe = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{4,}\.[A-Za-z0-9_-]{4,}\.[A-Za-z0-9_-]*`)

// detectJWT matches on shape alone. The header is parsed, never verified,
// only to name the signing algorithm.
func detectJWT(text string, _ clipboard.Kind) (string, bool) {
	m := jwtRe.FindString(text)
	if m == "" {
		return "", false
	}
	tok, _, err := jwt.NewParser().ParseUnverified(m, jwt.MapClaims{})
	if err == nil {
		if alg, _ := tok.Header["alg"].(string); alg != "" {
			return "JSON Web Token (" + alg + ")", true
		}
	}
	return "JSON Web Token", true
}

var connStringRe = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9+.-]*://[^\s:/@]+:[^\s/@]+@\S+`)

func detectConnectionString(text string, _ clipboard.Kind) (string, bool) {
	if connStringRe.MatchString(text) {
		return "connection string", true
	}
	return "", false
}

// secretWords is the vocabulary matched against assignment key names.
var secretWords = []string{
	"password", "passwd", "passphrase", "pwd",
	"secret", "token", "apikey", "api_key", "api-key",
	"access_key", "accesskey", "private_key", "privatekey",
	"credential", "authorization",
}

// secretSegments are whole key segments that name a secret. Compound names
// such as api_key or apiKey are matched as two adjacent segments joined.
var secretSegments = map[string]bool{
	"password": true, "passwd": true, "passphrase": true, "pwd": true,
	"secret": true, "token": true, "apikey": true, "accesskey": true,
	"privatekey": true, "credential": true, "credentials": true,
	"authorization": true,
}

// equalsRe finds KEY=VALUE pairs anywhere in the text; the key is checked
// with isSecretName. "==" is not an assignment.
var equalsRe = regexp.MustCompile(`(?:^|[^\w.-])["']?([A-Za-z_][\w.-]*)["']?\s*=\s*["']?[^\s"',;=]+`)

// colonRe only accepts "key: value" where the key is the first token on a
// line or follows { or , as in JSON and YAML.
var colonRe = regexp.MustCompile(`(?m)(?:^|[{,])[ \t]*["']?([A-Za-z_][\w.-]*)["']?[ \t]*:[ \t]*["']?[^\s"',;}]+`)

func detectAssignment(text string, _ clipboard.Kind) (string, bool) {
	if looksLikeDotenv(text) {
		if env, err := godotenv.Unmarshal(text); err == nil {
			for k, v := range env {
				if v != "" && isSecretName(k) {
					return "secret assignment", true
				}
			}
		}
	}
	for _, m := range equalsRe.FindAllStringSubmatch(text, -1) {
		if isSecretName(m[1]) {
			return "secret assignment", true
		}
	}
	for _, m := range colonRe.FindAllStringSubmatch(text, -1) {
		if isSecretKey(m[1]) {
			return "secret assignment", true
		}
	}
	return "", false
}

// isSecretKey matches a key whose segments name a secret, so client_secret
// and apiKey match while secretary and tokens do not.
func isSecretKey(name string) bool {
	segs := keySegments(name)
	for i, seg := range segs {
		if secretSegments[seg] {
			return true
		}
		if i > 0 && secretSegments[segs[i-1]+seg] {
			return true
		}
	}
	return false
}

// keySegments splits an identifier on separators and lower-to-upper case
// changes, lowercasing each part.
func keySegments(name string) []string {
	var (
		segs []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			segs = append(segs, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return segs
}

// looksLikeDotenv reports whether every non-blank, non-comment line is a
// KEY=VALUE pair.
func looksLikeDotenv(text string) bool {
	seen := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			return false
		}
		seen = true
	}
	return seen
}

// isSecretName matches env-style key names by substring, plus the common
// suffix conventions.
func isSecretName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, w := range secretWords {
		if strings.Contains(n, w) {
			return true
		}
	}
	for _, suffix := range []string{"_key", "_pass", "_pw", "_dsn"} {
		if strings.HasSuffix(n, suffix) {
			return true
		}
	}
	return n == "dsn" || n == "database_url"
}

// detectPasswordLike flags a single short token mixing letters, digits and
// symbols. URLs are exempt; their own secrets are caught above.
func detectPasswordLike(text string, kind clipboard.Kind) (string, bool) {
	if kind == clipboard.URL {
		return "", false
	}
	s := strings.TrimSpace(text)
	n := utf8.RuneCountInString(s)
	if n < 8 || n > 64 || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", false
	}
	var letter, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if letter && digit && symbol {
		return "password-like string", true
	}
	return "", false
}

// detectHighEntropy flags long random-looking tokens without a known prefix.
func detectHighEntropy(text string, kind clipboard.Kind) (string, bool) {
	if kind == clipboard.URL {
		return "", false
	}
	s := strings.TrimSpace(text)
	if len(s) < 24 || len(s) > 256 {
		return "", false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("+/=_-", r):
		default:
			return "", false
		}
	}
	if lower && upper && digit && entropy(s) >= 4.0 {
		return "high-entropy token", true
	}
	return "", false
}

// entropy is the Shannon entropy of s in bits per byte.
func entropy(s string) float64 {
	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	var h float64
	n := float64(len(s))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}
