package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DealerAuthService gates wholesale price visibility behind a shared secret.
//
// The secret and the comparison are a placeholder capability gate, not a
// security mechanism. If price confidentiality matters, prices must be
// authorized server-side per dealer account.
type DealerAuthService struct {
	secretHash []byte
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a dealer proof is valid

	mu      sync.Mutex
	revoked map[string]time.Time // logged-out proofs, until they would have expired
}

// NewDealerAuthService hashes the shared dealer secret and prepares proof signing.
func NewDealerAuthService(sharedSecret, jwtSecret string) (*DealerAuthService, error) {
	if sharedSecret == "" {
		return nil, fmt.Errorf("dealer secret must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(sharedSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash dealer secret: %w", err)
	}
	return &DealerAuthService{
		secretHash: hash,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
		revoked:    make(map[string]time.Time),
	}, nil
}

// Login compares the password with the shared secret. On success the session
// becomes a dealer session and the signed proof is returned.
func (s *DealerAuthService) Login(sess *Session, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "dealer",
		"sid":  sess.ID,
		"jti":  uuid.New().String(),
		"exp":  now.Add(s.tokenDurat).Unix(),
		"iat":  now.Unix(),
	})
	proof, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign dealer proof: %w", err)
	}

	sess.SetDealer(dealerSession(proof))
	return proof, nil
}

// Logout clears the dealer capability of the session and revokes its proof,
// so presenting the same proof again no longer restores dealer access.
func (s *DealerAuthService) Logout(sess *Session) {
	if proof := sess.Dealer().Proof; proof != "" {
		s.revoke(proof)
	}
	sess.SetDealer(noDealer())
}

// Restore marks the session as a dealer session when proof is a valid token.
// A proof revoked by Logout returns ErrProofRevoked and clears the session.
func (s *DealerAuthService) Restore(sess *Session, proof string) error {
	if s.isRevoked(proof) {
		if sess.Dealer().Proof == proof {
			sess.SetDealer(noDealer())
		}
		return ErrProofRevoked
	}
	if d := sess.Dealer(); d.IsDealer && d.Proof == proof {
		return nil
	}
	if _, err := s.ValidateToken(proof); err != nil {
		return err
	}
	sess.SetDealer(dealerSession(proof))
	return nil
}

func (s *DealerAuthService) revoke(proof string) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for p, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, p)
		}
	}
	s.revoked[proof] = now.Add(s.tokenDurat)
}

func (s *DealerAuthService) isRevoked(proof string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[proof]
	return ok
}

// ValidateToken parses and validates a dealer proof, returning its claims.
func (s *DealerAuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Dealer proof validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid || claims["role"] != "dealer" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
