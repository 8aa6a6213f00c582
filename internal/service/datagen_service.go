package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/airfork/uts-dpm-sub000/config"
	"github.com/airfork/uts-dpm-sub000/internal/mailer"
	"github.com/airfork/uts-dpm-sub000/internal/model"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

// DataGenService seeds a development database so the mock autogen pipeline
// works end to end. Never enabled in production.
type DataGenService interface {
	// Seed populates colors, the type catalog, and a small user roster.
	// Idempotent: a non-empty database is left untouched.
	Seed(ctx context.Context) error
}

type dataGenService struct {
	repo    *repository.Repository
	mail    mailer.Dispatcher
	baseURL string
	logger  *zap.Logger
}

// NewDataGenService creates the DataGenService.
func NewDataGenService(repo *repository.Repository, mail mailer.Dispatcher, cfg *config.Config, logger *zap.Logger) DataGenService {
	return &dataGenService{
		repo:    repo,
		mail:    mail,
		baseURL: cfg.Server.BaseURL,
		logger:  logger,
	}
}

const seedPassword = "password"

func (s *dataGenService) Seed(ctx context.Context) error {
	userCount, err := s.repo.User.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	typeCount, err := s.repo.DpmType.CountTypes(ctx)
	if err != nil {
		return fmt.Errorf("counting dpm types: %w", err)
	}
	if userCount > 0 || typeCount > 0 {
		s.logger.Info("database not empty, skipping data generation")
		return nil
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		colors, err := s.seedColors(ctx, txRepo)
		if err != nil {
			return err
		}
		if err := s.seedTypes(ctx, txRepo, colors); err != nil {
			return err
		}
		return s.seedUsers(ctx, txRepo)
	})
	if err != nil {
		return err
	}

	s.logger.Info("development data generated")
	return nil
}

func (s *dataGenService) seedColors(ctx context.Context, txRepo *repository.Repository) (map[string]*model.W2WColor, error) {
	colors := []model.W2WColor{
		{ColorCode: "2", ColorName: "Green", HexCode: "00b159", Active: true},
		{ColorCode: "5", ColorName: "Red", HexCode: "d11141", Active: true},
		{ColorCode: "9", ColorName: "Yellow", HexCode: "ffc425", Active: true},
		{ColorCode: "12", ColorName: "Gray", HexCode: "aaaaaa", Active: false},
	}

	out := make(map[string]*model.W2WColor, len(colors))
	for i := range colors {
		if err := txRepo.W2WColor.Create(ctx, &colors[i]); err != nil {
			return nil, fmt.Errorf("seeding color %s: %w", colors[i].ColorName, err)
		}
		out[colors[i].ColorName] = &colors[i]
	}
	return out, nil
}

func (s *dataGenService) seedTypes(ctx context.Context, txRepo *repository.Repository, colors map[string]*model.W2WColor) error {
	groups := []struct {
		name  string
		types []model.DpmType
	}{
		{
			name: "Positive",
			types: []model.DpmType{
				{Name: "Picked Up Block", Points: 1, Active: true, W2WColorID: &colors["Green"].ID},
				{Name: "Good Report From Customer", Points: 1, Active: true},
			},
		},
		{
			name: "Attendance",
			types: []model.DpmType{
				{Name: "Late To Block", Points: -2, Active: true, W2WColorID: &colors["Yellow"].ID},
				{Name: "Missed Block", Points: -5, Active: true, W2WColorID: &colors["Red"].ID},
				{Name: "Late Report", Points: -1, Active: true},
			},
		},
		{
			name: "Safety",
			types: []model.DpmType{
				{Name: "Preventable Accident", Points: -10, Active: true},
				{Name: "Improper Radio Procedure", Points: -2, Active: false},
			},
		},
	}

	for _, g := range groups {
		group := model.DpmGroup{GroupName: g.name, Active: true}
		if err := txRepo.DpmType.CreateGroup(ctx, &group); err != nil {
			return fmt.Errorf("seeding group %s: %w", g.name, err)
		}
		for i := range g.types {
			g.types[i].DpmGroupID = group.ID
			if err := txRepo.DpmType.Create(ctx, &g.types[i]); err != nil {
				return fmt.Errorf("seeding type %s: %w", g.types[i].Name, err)
			}
		}
	}
	return nil
}

func (s *dataGenService) seedUsers(ctx context.Context, txRepo *repository.Repository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	admin := model.User{
		Firstname:    "Ada",
		Lastname:     "Admin",
		Username:     "admin@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		FullTime:     true,
	}
	if err := txRepo.User.Create(ctx, &admin); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	manager := model.User{
		Firstname:    "Morgan",
		Lastname:     "Manager",
		Username:     "manager@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleManager,
		FullTime:     true,
	}
	if err := txRepo.User.Create(ctx, &manager); err != nil {
		return fmt.Errorf("seeding manager: %w", err)
	}

	drivers := []model.User{
		{Firstname: "Dana", Lastname: "Driver"},
		{Firstname: "Devin", Lastname: "Doyle"},
		{Firstname: "Drew", Lastname: "Daniels"},
		{Firstname: "Dale", Lastname: "Dixon"},
		{Firstname: "Dominic", Lastname: "Dawson"},
		{Firstname: "Daria", Lastname: "Delgado"},
	}
	for i := range drivers {
		d := &drivers[i]
		d.Username = fmt.Sprintf("%s.%s@example.com", d.Firstname, d.Lastname)
		d.PasswordHash = string(hash)
		d.Role = model.RoleDriver
		d.ManagerID = &manager.ID
		d.FullTime = i%2 == 0
		if err := txRepo.User.Create(ctx, d); err != nil {
			return fmt.Errorf("seeding driver %s: %w", d.FullName(), err)
		}
		s.mail.EnqueueWelcome(mailer.WelcomeEmail{
			To:       d.Username,
			Name:     d.FullName(),
			Password: seedPassword,
			URL:      s.baseURL,
		})
	}
	return nil
}
