package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aidar/walking-buddies/internal/domain"
	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/scoring"
)

// InviteClaims represents the claims of a signed invite token
type InviteClaims struct {
	InviterID   string `json:"inviter_id"`
	FriendEmail string `json:"friend_email"`
	jwt.RegisteredClaims
}

// InviteResult is returned to the inviter
type InviteResult struct {
	Invite      *domain.Invite `json:"invite"`
	Token       string         `json:"token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	BonusPoints int            `json:"bonus_points"`
}

// InviteService issues and redeems friend invites
type InviteService struct {
	inviteRepo   repository.InviteRepository
	userRepo     repository.UserRepository
	engine       *scoring.Engine
	inviteSecret string
	inviteTTL    time.Duration
	notifier
	now func() time.Time
}

// NewInviteService creates a new InviteService
func NewInviteService(
	inviteRepo repository.InviteRepository,
	userRepo repository.UserRepository,
	engine *scoring.Engine,
	inviteSecret string,
	inviteTTL time.Duration,
	publisher events.Publisher,
	logger *slog.Logger,
) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		userRepo:     userRepo,
		engine:       engine,
		inviteSecret: inviteSecret,
		inviteTTL:    inviteTTL,
		notifier:     newNotifier(publisher, logger),
		now:          time.Now,
	}
}

// CreateInvite records the invite, grants the inviter the invite bonus and returns a signed token
func (s *InviteService) CreateInvite(ctx context.Context, inviterID, friendEmail string) (*InviteResult, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(friendEmail))
	if err != nil {
		return nil, fmt.Errorf("%w: friend_email is not a valid address", domain.ErrInvalidInput)
	}

	// Inviter must be registered
	if _, err := s.userRepo.GetByID(ctx, inviterID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	invite := &domain.Invite{
		InviteID:    uuid.NewString(),
		InviterID:   inviterID,
		FriendEmail: strings.ToLower(addr.Address),
		CreatedAt:   now,
	}

	// Sign before persisting so a signing failure leaves no orphan reward
	expiresAt := now.Add(s.inviteTTL)
	token, err := s.sign(invite, expiresAt)
	if err != nil {
		return nil, err
	}

	var reward *domain.Reward
	bonus := s.engine.Rules().InviteBonus
	if bonus > 0 {
		reward = &domain.Reward{
			RewardID:  uuid.NewString(),
			UserID:    inviterID,
			Source:    domain.RewardSourceInvite,
			Points:    bonus,
			AwardedAt: now,
		}
	}

	if err := s.inviteRepo.Create(ctx, invite, reward); err != nil {
		return nil, err
	}

	if reward != nil {
		s.rewardGranted(ctx, inviterID, reward.Source, reward.Points)
	}
	s.afterActivity(ctx, inviterID)

	return &InviteResult{
		Invite:      invite,
		Token:       token,
		ExpiresAt:   expiresAt,
		BonusPoints: bonus,
	}, nil
}

// Accept registers the invited friend and places them in the inviter's current team.
// Each invite can be redeemed once; a failed redemption leaves it usable.
func (s *InviteService) Accept(ctx context.Context, token, userID, displayName string) (*domain.User, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	inviter, err := s.userRepo.GetByID(ctx, claims.InviterID)
	if err != nil {
		return nil, fmt.Errorf("%w: inviter no longer exists", domain.ErrInvalidInvite)
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = userID
	}

	user := &domain.User{
		UserID:      userID,
		DisplayName: displayName,
		TeamID:      inviter.TeamID,
	}
	if err := s.inviteRepo.Redeem(ctx, claims.ID, user); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeUserRegistered, userID, user)

	return s.userRepo.GetByID(ctx, userID)
}

// ValidateToken validates an invite token and returns its claims
func (s *InviteService) ValidateToken(tokenString string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.inviteSecret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, domain.ErrInvalidInvite
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid || claims.InviterID == "" || claims.ID == "" {
		return nil, domain.ErrInvalidInvite
	}

	return claims, nil
}

func (s *InviteService) sign(invite *domain.Invite, expiresAt time.Time) (string, error) {
	claims := &InviteClaims{
		InviterID:   invite.InviterID,
		FriendEmail: invite.FriendEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        invite.InviteID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(invite.CreatedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.inviteSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign invite token: %w", err)
	}

	return tokenString, nil
}
