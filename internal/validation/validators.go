package validation

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Limits são os tamanhos máximos configurados pela aplicação na subida.
type Limits struct {
	MaxNameLength      int
	MaxCPFLength       int
	MaxRGLength        int
	MaxMatriculaLength int
	MaxSlugLength      int
}

func DefaultLimits() Limits {
	return Limits{
		MaxNameLength:      100,
		MaxCPFLength:       14,
		MaxRGLength:        20,
		MaxMatriculaLength: 20,
		MaxSlugLength:      50,
	}
}

var (
	slugRe  = regexp.MustCompile(`^[a-z0-9-]+$`)
	colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	logoRe  = regexp.MustCompile(`^https?://.+`)

	minDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var ufs = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// UFs lista as siglas em ordem alfabética.
func UFs() []string {
	out := make([]string, 0, len(ufs))
	for k := range ufs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// remove qualquer coisa que não seja dígito
func SanitizeDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// ValidateCPF aceita o CPF com ou sem pontuação e confere os dois dígitos
// verificadores (módulo 11).
func ValidateCPF(raw string) bool {
	cpf := SanitizeDigits(raw)
	if len(cpf) != 11 {
		return false
	}

	allEq := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allEq = false
			break
		}
	}
	if allEq {
		return false
	}

	return cpfCheckDigit(cpf[:9]) == int(cpf[9]-'0') &&
		cpfCheckDigit(cpf[:10]) == int(cpf[10]-'0')
}

// pesos decrescentes de len+1 até 2; resto 10 ou 11 vira 0
func cpfCheckDigit(digits string) int {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

func ValidateRG(raw string) bool {
	n := len(SanitizeDigits(raw))
	return n >= 8 && n <= 12
}

// ValidateDate: não pode ser futura nem anterior a 1900-01-01. A comparação
// é por dia civil; "hoje" é o dia de now no fuso de now.
func ValidateDate(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := CalendarDate(t)
	return !d.After(CalendarDate(now)) && !d.Before(minDate)
}

// ValidateDateString faz o parse no fuso de now, para que "hoje" seja sempre aceito.
func ValidateDateString(raw string, now time.Time) bool {
	t, err := ParseDate(raw, now.Location())
	if err != nil {
		return false
	}
	return ValidateDate(t, now)
}

func ValidateName(raw string, max int) bool {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < 2 || n > max {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsLetter(r) || !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return true
}

func ValidateMatricula(raw string, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(raw))
	return n >= 1 && n <= max
}

func ValidateUF(raw string) bool {
	_, ok := ufs[raw]
	return ok
}

func ValidateSlugFormat(raw string) bool {
	return slugRe.MatchString(raw)
}

func ValidateColorHex(raw string) bool {
	return colorRe.MatchString(raw)
}

// logo é opcional; quando informado precisa ser uma URL http(s)
func ValidateLogoURL(raw string) bool {
	if raw == "" {
		return true
	}
	return logoRe.MatchString(raw)
}
