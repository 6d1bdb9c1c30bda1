package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/repositories"
	"github.com/Kariqs/mealplan-api/session"
	"github.com/Kariqs/mealplan-api/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AccountConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	FrontendURL      string
	ReferralCodes    []string
	ReferralRequired bool
}

type AccountService struct {
	cfg    AccountConfig
	stores repositories.Stores
	mailer utils.Mailer
	log    logrus.FieldLogger
}

func NewAccountService(cfg AccountConfig, stores repositories.Stores, mailer utils.Mailer, log logrus.FieldLogger) *AccountService {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	return &AccountService{cfg: cfg, stores: stores, mailer: mailer, log: log}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) referralAccepted(code string) bool {
	if !s.cfg.ReferralRequired {
		return true
	}
	code = strings.TrimSpace(code)
	for _, valid := range s.cfg.ReferralCodes {
		if code != "" && strings.EqualFold(code, valid) {
			return true
		}
	}
	return false
}

// Signup creates a customer account. Without an accepted referral code the visitor is
// put on the waitlist instead and ErrWaitlisted is returned.
func (s *AccountService) Signup(ctx context.Context, data models.SignupData) (models.User, error) {
	email := normalizeEmail(data.Email)
	if !s.referralAccepted(data.ReferralCode) {
		entry := models.WaitlistEntry{
			Email:        email,
			Neighborhood: data.Neighborhood,
			Reason:       models.WaitlistInvalidReferral,
		}
		if err := s.stores.Waitlist.Create(ctx, &entry); err != nil {
			return models.User{}, err
		}
		return models.User{}, ErrWaitlisted
	}

	hashed, err := hashPassword(data.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Name:         strings.TrimSpace(data.Name),
		Email:        email,
		Password:     hashed,
		ReferralCode: strings.TrimSpace(data.ReferralCode),
	}
	if err := s.stores.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Login checks the credentials and issues a user token.
func (s *AccountService) Login(ctx context.Context, data models.LoginData) (string, models.User, error) {
	user, err := s.stores.Users.FindByEmail(ctx, normalizeEmail(data.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}
	if err := comparePasswords(user.Password, data.Password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Email, utils.RoleUser, s.cfg.TokenTTL)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

func (s *AccountService) User(ctx context.Context, id uint) (models.User, error) {
	user, err := s.stores.Users.FindByID(ctx, id)
	return user, storeErr(err)
}

func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.stores.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storeErr(err)
	}
	token, err := utils.GenerateCode(32)
	if err != nil {
		return err
	}
	if err := s.stores.Users.SetResetToken(ctx, user.Email, token); err != nil {
		return storeErr(err)
	}
	data := utils.EmailData{
		Name:        user.Name,
		Message:     "You requested a password reset. Click the button below to reset your password.",
		ActionURL:   s.cfg.FrontendURL + "/auth/reset-password?token=" + url.QueryEscape(token),
		ActionLabel: "Reset password",
	}
	return s.mailer.Send(user.Email, "Password reset", data)
}

func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 8 {
		return invalidf("password must be at least 8 characters")
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	return storeErr(s.stores.Users.ResetPassword(ctx, token, hashed))
}

// UpdateProfile completes onboarding. A neighborhood that is not serviced yet puts the
// user on the waitlist and leaves the profile unchanged.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, data models.ProfileData) (models.User, error) {
	phone, err := utils.NormalizePhone(data.Phone)
	if err != nil {
		return models.User{}, invalidf("%v", err)
	}
	address := strings.TrimSpace(data.Address)
	if address == "" {
		return models.User{}, invalidf("address is required")
	}

	user, err := s.stores.Users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, storeErr(err)
	}
	neighborhood, err := s.stores.Neighborhoods.FindByID(ctx, data.NeighborhoodID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, invalidf("unknown neighborhood")
	}
	if err != nil {
		return models.User{}, err
	}
	if !neighborhood.IsServiced {
		entry := models.WaitlistEntry{
			Email:        user.Email,
			Phone:        phone,
			Neighborhood: neighborhood.Name,
			Reason:       models.WaitlistUnservicedNeighborhood,
		}
		if err := s.stores.Waitlist.Create(ctx, &entry); err != nil {
			return models.User{}, err
		}
		return models.User{}, ErrWaitlisted
	}

	if name := strings.TrimSpace(data.Name); name != "" {
		user.Name = name
	}
	user.Phone = phone
	user.Address = address
	user.NeighborhoodID = &neighborhood.ID
	user.Neighborhood = nil
	if err := s.stores.Users.Update(ctx, &user); err != nil {
		return models.User{}, storeErr(err)
	}
	return s.User(ctx, userID)
}

func (s *AccountService) AdminLogin(ctx context.Context, data models.LoginData) (string, models.Admin, error) {
	admin, err := s.stores.Admins.FindByEmail(ctx, normalizeEmail(data.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.Admin{}, err
	}
	if err := comparePasswords(admin.Password, data.Password); err != nil {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(s.cfg.JWTSecret, admin.ID, admin.Email, utils.RoleAdmin, s.cfg.TokenTTL)
	if err != nil {
		return "", models.Admin{}, err
	}
	return token, admin, nil
}

func (s *AccountService) Admin(ctx context.Context, id uint) (models.Admin, error) {
	admin, err := s.stores.Admins.FindByID(ctx, id)
	return admin, storeErr(err)
}

// SeedAdmin creates the first administrator when none exists yet.
func (s *AccountService) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	count, err := s.stores.Admins.Count(ctx)
	if err != nil || count > 0 {
		return false, err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = "Admin"
	}
	admin := models.Admin{Name: name, Email: normalizeEmail(email), Password: hashed}
	if err := s.stores.Admins.Create(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}

// SessionState runs the user, profile and admin lookups side by side. A failed lookup
// only leaves its own part of the state empty.
func (s *AccountService) SessionState(ctx context.Context, userID, adminID uint) session.State {
	var (
		state session.State
		wg    sync.WaitGroup
	)
	if userID != 0 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			user, err := s.stores.Users.FindByID(ctx, userID)
			if err != nil {
				s.logLookup(err, "user")
				return
			}
			state.User = &session.UserInfo{ID: user.ID, Email: user.Email, Name: user.Name}
		}()
		go func() {
			defer wg.Done()
			user, err := s.stores.Users.FindByID(ctx, userID)
			if err != nil {
				s.logLookup(err, "profile")
				return
			}
			state.Profile = &session.Profile{Onboarded: user.Onboarded(), NeighborhoodID: user.NeighborhoodID}
		}()
	}
	if adminID != 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admin, err := s.stores.Admins.FindByID(ctx, adminID)
			if err != nil {
				s.logLookup(err, "admin")
				return
			}
			state.Admin = &session.AdminInfo{ID: admin.ID, Email: admin.Email}
		}()
	}
	wg.Wait()
	return state
}

func (s *AccountService) logLookup(err error, lookup string) {
	if errors.Is(err, repositories.ErrNotFound) {
		return
	}
	s.log.WithError(err).WithField("lookup", lookup).Warn("session lookup failed")
}

// JoinWaitlist records a manual waitlist signup.
func (s *AccountService) JoinWaitlist(ctx context.Context, entry models.WaitlistEntry) (models.WaitlistEntry, error) {
	entry.Email = normalizeEmail(entry.Email)
	if entry.Phone != "" {
		phone, err := utils.NormalizePhone(entry.Phone)
		if err != nil {
			return models.WaitlistEntry{}, invalidf("%v", err)
		}
		entry.Phone = phone
	}
	entry.ID = 0
	entry.Reason = models.WaitlistManual
	if err := s.stores.Waitlist.Create(ctx, &entry); err != nil {
		return models.WaitlistEntry{}, err
	}
	return entry, nil
}

func (s *AccountService) Waitlist(ctx context.Context, page utils.Page) ([]models.WaitlistEntry, int64, error) {
	entries, total, err := s.stores.Waitlist.List(ctx, page.Offset, page.Limit, page.Sort)
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}
	return entries, total, err
}

func (s *AccountService) RemoveFromWaitlist(ctx context.Context, id uint) error {
	return storeErr(s.stores.Waitlist.Delete(ctx, id))
}
