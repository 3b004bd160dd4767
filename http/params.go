package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sepsisapi/ml"
)

// ValidationError is one entry of a 422 response body.
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// bindFeatures reads the nine required parameters from the query string,
// falling back to a form-encoded body. Every failing field is reported, in
// column order.
func bindFeatures(r *http.Request) (ml.PatientFeatures, []ValidationError) {
	query := r.URL.Query()
	form := r.PostForm

	var (
		f    ml.PatientFeatures
		errs []ValidationError
	)
	floats := []*float64{&f.PRG, &f.PL, &f.PR, &f.SK, &f.TS, &f.M11, &f.BD2, &f.Age}
	for i, name := range ml.FeatureNames() {
		raw, ok := lookup(name, query, form)
		if !ok {
			errs = append(errs, ValidationError{
				Loc:  []string{"query", name},
				Msg:  "field required",
				Type: "value_error.missing",
			})
			continue
		}

		if name == "Insurance" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, ValidationError{
					Loc:  []string{"query", name},
					Msg:  "value is not a valid integer",
					Type: "type_error.integer",
				})
				continue
			}
			f.Insurance = v
			continue
		}

		v, err := parseFloat(raw)
		if err != nil {
			errs = append(errs, ValidationError{
				Loc:  []string{"query", name},
				Msg:  "value is not a valid float",
				Type: "type_error.float",
			})
			continue
		}
		*floats[i] = v
	}
	return f, errs
}

// parseFloat accepts decimal, exponent, nan and inf forms. Hex literals are
// rejected and out-of-range values become ±Inf.
func parseFloat(raw string) (float64, error) {
	digits := strings.TrimLeft(raw, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && errors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}

// lookup returns the last value given for name, trimmed.
func lookup(name string, sources ...url.Values) (string, bool) {
	for _, values := range sources {
		if vs := values[name]; len(vs) > 0 {
			return strings.TrimSpace(vs[len(vs)-1]), true
		}
	}
	return "", false
}
