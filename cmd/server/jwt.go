package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.GetSigningMethod("RS256")

type PlayerClaims struct {
	PlayerId int    `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func createPlayerToken(playerId int, username string) (string, error) {
	claims := PlayerClaims{
		playerId,
		username,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.Jwt.TokenLifetime.Duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	return token.SignedString(jwtPrivateKey)
}

// The token is split between a js-readable cookie (header.payload) and an
// http-only cookie (signature) so the client can inspect its own claims
// without being able to forge them.
func setPlayerCookies(w http.ResponseWriter, token string) {
	parts := strings.Split(token, ".")
	header, payload, signature := parts[0], parts[1], parts[2]
	jsCookie := http.Cookie{
		Name:     "auth",
		Path:     "/",
		Value:    header + "." + payload,
		Secure:   config.Production(),
		Expires:  time.Now().Add(config.Jwt.TokenLifetime.Duration),
		SameSite: http.SameSiteNoneMode,
	}
	httpCookie := http.Cookie{
		Name:     "sign",
		Path:     "/",
		Value:    signature,
		Secure:   config.Production(),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(w, &jsCookie)
	http.SetCookie(w, &httpCookie)
}

func refreshPlayerCookies(w http.ResponseWriter, claims PlayerClaims) {
	token, err := createPlayerToken(claims.PlayerId, claims.Username)
	if err != nil {
		log.Error("unable to refresh player token: ", err)
		return
	}
	setPlayerCookies(w, token)
}

func clearPlayerCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth",
		Path:     "/",
		MaxAge:   -1,
		Secure:   config.Production(),
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "sign",
		Path:     "/",
		MaxAge:   -1,
		Secure:   config.Production(),
		SameSite: http.SameSiteNoneMode,
	})
}

func getJWTFromCookies(r *http.Request) (string, error) {
	authCookie, err := r.Cookie("auth")
	if err != nil {
		return "", err
	}
	signCookie, err := r.Cookie("sign")
	if err != nil {
		return "", err
	}
	return authCookie.Value + "." + signCookie.Value, nil
}

func getKey(t *jwt.Token) (interface{}, error) {
	return jwtPublicKey, nil
}

func tryParseJWTCookie(tokenString string) (*PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PlayerClaims{}, getKey)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, errors.New("unknown claims type")
	}
	return claims, nil
}
