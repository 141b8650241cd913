package jwttoken_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	jwttoken "wellflow/internal/jwt_token"
	dErrors "wellflow/pkg/domain-errors"
)

type TokenServiceSuite struct {
	suite.Suite
	service *jwttoken.Service
	userID  uuid.UUID
	orgID   uuid.UUID
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) SetupTest() {
	s.service = jwttoken.NewService("test-signing-key", "wellflow", "wellflow-api")
	s.userID = uuid.New()
	s.orgID = uuid.New()
}

func (s *TokenServiceSuite) TestGenerateAndValidateRoundTrip() {
	token, err := s.service.GenerateAccessToken(s.userID, s.orgID, time.Hour)
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := s.service.ValidateToken(token)
	s.Require().NoError(err)
	s.Equal(s.userID.String(), claims.UserID)
	s.Equal(s.orgID.String(), claims.OrganizationID)
}

func (s *TokenServiceSuite) TestExpiredTokenRejected() {
	token, err := s.service.GenerateAccessToken(s.userID, s.orgID, -time.Minute)
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Contains(err.Error(), "expired")
}

func (s *TokenServiceSuite) TestWrongSigningKeyRejected() {
	other := jwttoken.NewService("different-key", "wellflow", "wellflow-api")
	token, err := other.GenerateAccessToken(s.userID, s.orgID, time.Hour)
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *TokenServiceSuite) TestGarbageTokenRejected() {
	_, err := s.service.ValidateToken("not-a-token")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
