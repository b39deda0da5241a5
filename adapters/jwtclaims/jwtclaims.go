// Package jwtclaims generates golang-jwt claim values. Registered claims are
// coherent: issued-at never follows not-before, and not-before always
// precedes the expiry, so a token signed from them validates at its
// not-before time.
package jwtclaims

import (
	"reflect"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shipq/typegen/canned"
	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

// Lifetime bounds of generated registered claims.
const (
	MaxNotBeforeDelay = time.Hour
	MinLifetime       = time.Minute
	MaxLifetime       = 24 * time.Hour
)

var (
	numericDate      = reflect.TypeFor[jwt.NumericDate]()
	claimStrings     = reflect.TypeFor[jwt.ClaimStrings]()
	registeredClaims = reflect.TypeFor[jwt.RegisteredClaims]()
)

// Audience describes a generated audience entry.
var Audience = canned.Identifier

// Matcher claims jwt.NumericDate, jwt.ClaimStrings and jwt.RegisteredClaims.
// Put it ahead of the built-in chain.
func Matcher() generator.Matcher {
	return generator.Named("jwtclaims", func(c *generator.Context) (generator.Generator, error) {
		t, ok := c.Source.(reflect.Type)
		if !ok {
			return nil, nil
		}
		switch t {
		case numericDate:
			return dates(c.Rand), nil
		case claimStrings:
			return audiences(c)
		case registeredClaims:
			return claims(c)
		}
		return nil, nil
	})
}

// dates yields NumericDate values truncated to jwt.TimePrecision.
func dates(src *rng.Source) generator.Generator {
	return rng.Map(canned.Times(src), func(v any) any {
		return *jwt.NewNumericDate(v.(time.Time))
	})
}

func audiences(c *generator.Context) (generator.Generator, error) {
	g, err := c.Step(generator.ListOf(Audience), "aud")
	if err != nil {
		return nil, err
	}
	return rng.Map(g, func(v any) any {
		items := v.([]any)
		aud := make(jwt.ClaimStrings, len(items))
		for i, item := range items {
			aud[i] = item.(string)
		}
		return aud
	}), nil
}

func claims(c *generator.Context) (generator.Generator, error) {
	aud, err := audiences(c)
	if err != nil {
		return nil, err
	}
	src := c.Rand
	parts := rng.Zip(
		canned.Words(src),
		canned.UUIDHexes(src),
		aud,
		dates(src),
		rng.Draws(src, func(r *rng.Rand) any {
			return time.Duration(r.Int64Range(0, int64(MaxNotBeforeDelay/time.Second))) * time.Second
		}),
		rng.Draws(src, func(r *rng.Rand) any {
			return time.Duration(r.Int64Range(int64(MinLifetime/time.Second), int64(MaxLifetime/time.Second))) * time.Second
		}),
		canned.NanoIDs(src),
	)
	return rng.Map(parts, func(v any) any {
		p := v.([]any)
		issued := p[3].(jwt.NumericDate)
		notBefore := issued.Add(p[4].(time.Duration))
		return jwt.RegisteredClaims{
			Issuer:    "https://" + p[0].(string) + ".example.com",
			Subject:   p[1].(string),
			Audience:  p[2].(jwt.ClaimStrings),
			IssuedAt:  &issued,
			NotBefore: jwt.NewNumericDate(notBefore),
			ExpiresAt: jwt.NewNumericDate(notBefore.Add(p[5].(time.Duration))),
			ID:        p[6].(string),
		}
	}), nil
}
