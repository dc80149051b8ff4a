package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barslot/internal/auth"
	"barslot/internal/bar"
	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/user"
)

type seedUser struct {
	Name      string
	Lastname  string
	Email     string
	Password  string
	Birthdate time.Time
	Role      string
}

func ptr[T any](v T) *T { return &v }

var sampleBars = []bar.CreateBarRequest{
	{
		Name:         "Dakiti Club",
		Address:      "Carrera 22 #52, Bogotá",
		Description:  ptr("Crossover club with the best music to dance all night."),
		ImageURL:     ptr("https://example.com/dakiti.jpg"),
		Phone:        ptr("+57 1 234 5678"),
		OpeningTime:  ptr("22:00"),
		ClosingTime:  ptr("04:00"),
		MinPrice:     ptr(30000),
		MaxPrice:     ptr(50000),
		Latitude:     ptr(4.6482),
		Longitude:    ptr(-74.0577),
		MusicGenres:  []string{"Reggaetón", "Crossover"},
		Rating:       4.8,
		TotalReviews: 450,
	},
	{
		Name:         "Theatron",
		Address:      "Calle 58 Bis #10 - 32, Bogotá",
		Description:  ptr("The largest club in Latin America, with many rooms and genres."),
		ImageURL:     ptr("https://example.com/theatron.jpg"),
		Phone:        ptr("+57 1 345 6789"),
		OpeningTime:  ptr("21:00"),
		ClosingTime:  ptr("05:00"),
		MinPrice:     ptr(40000),
		MaxPrice:     ptr(70000),
		Latitude:     ptr(4.6530),
		Longitude:    ptr(-74.0590),
		MusicGenres:  []string{"Electrónica", "Pop", "Fusión"},
		Rating:       4.9,
		TotalReviews: 1200,
	},
	{
		Name:         "Clandestino",
		Address:      "Calle 84A # 12-50, Bogotá",
		Description:  ptr("For lovers of salsa and latin music."),
		ImageURL:     ptr("https://example.com/clandestino.jpg"),
		Phone:        ptr("+57 1 456 7890"),
		OpeningTime:  ptr("20:00"),
		ClosingTime:  ptr("03:00"),
		MinPrice:     ptr(25000),
		MaxPrice:     ptr(45000),
		Latitude:     ptr(4.6670),
		Longitude:    ptr(-74.0530),
		MusicGenres:  []string{"Salsa", "Latino", "Crossover"},
		Rating:       4.7,
		TotalReviews: 380,
	},
	{
		Name:         "La Negra",
		Address:      "Calle 100 #15-20, Bogotá",
		Description:  ptr("Caribbean vibe and latin rhythms to enjoy with friends."),
		ImageURL:     ptr("https://example.com/lanegra.jpg"),
		Phone:        ptr("+57 1 567 8901"),
		OpeningTime:  ptr("19:00"),
		ClosingTime:  ptr("02:00"),
		MinPrice:     ptr(20000),
		MaxPrice:     ptr(40000),
		Latitude:     ptr(4.6900),
		Longitude:    ptr(-74.0450),
		MusicGenres:  []string{"Latino", "Caribeña"},
		Rating:       4.6,
		TotalReviews: 290,
	},
	{
		Name:         "Presea Bar",
		Address:      "Cra 13 #50-60, Bogotá",
		Description:  ptr("The best after party with techno DJs and an underground scene."),
		ImageURL:     ptr("https://example.com/presea.jpg"),
		Phone:        ptr("+57 1 678 9012"),
		OpeningTime:  ptr("23:00"),
		ClosingTime:  ptr("06:00"),
		MinPrice:     ptr(35000),
		MaxPrice:     ptr(60000),
		Latitude:     ptr(4.6400),
		Longitude:    ptr(-74.0650),
		MusicGenres:  []string{"Techno", "After Party"},
		Rating:       4.5,
		TotalReviews: 210,
	},
}

var sampleUsers = []seedUser{
	{Name: "Carlos", Lastname: "Pérez", Email: "carlos@barslot.app", Password: "password1",
		Birthdate: time.Date(1995, time.March, 12, 0, 0, 0, 0, time.UTC), Role: auth.RoleMember},
	{Name: "María", Lastname: "López", Email: "maria@barslot.app", Password: "password2",
		Birthdate: time.Date(1998, time.June, 25, 0, 0, 0, 0, time.UTC), Role: auth.RoleMember},
	{Name: "Juan", Lastname: "Rodríguez", Email: "juan@barslot.app", Password: "password3",
		Birthdate: time.Date(2000, time.January, 8, 0, 0, 0, 0, time.UTC), Role: auth.RoleMember},
}

type Provisioner interface {
	ProvisionRange(ctx context.Context, in ledger.ProvisionInput) (int, error)
}

type seeder struct {
	bars        bar.Repository
	users       user.Repository
	provisioner Provisioner
}

type result struct {
	BarsCreated  int
	UsersCreated int
	SlotsCreated int
}

func (s *seeder) run(ctx context.Context, admin seedUser) (result, error) {
	var res result

	ids := make([]int, 0, len(sampleBars))
	for _, req := range sampleBars {
		id, created, err := s.ensureBar(ctx, req)
		if err != nil {
			return res, err
		}
		if created {
			res.BarsCreated++
		}
		ids = append(ids, id)
	}

	accounts := append([]seedUser{admin}, sampleUsers...)
	for _, u := range accounts {
		created, err := s.ensureUser(ctx, u)
		if err != nil {
			return res, err
		}
		if created {
			res.UsersCreated++
		}
	}

	for _, id := range ids {
		n, err := s.provisioner.ProvisionRange(ctx, ledger.ProvisionInput{BarID: id})
		if err != nil {
			return res, fmt.Errorf("provision bar %d: %w", id, err)
		}
		res.SlotsCreated += n
	}

	return res, nil
}

func (s *seeder) ensureBar(ctx context.Context, req bar.CreateBarRequest) (int, bool, error) {
	existing, err := s.bars.GetByName(ctx, req.Name)
	if err == nil {
		logger.Info("bar already exists, skipping", "name", req.Name)
		return existing.ID, false, nil
	}
	if !errors.Is(err, bar.ErrBarNotFound) {
		return 0, false, fmt.Errorf("look up bar %q: %w", req.Name, err)
	}

	created, err := s.bars.Create(ctx, req)
	if err != nil {
		return 0, false, fmt.Errorf("create bar %q: %w", req.Name, err)
	}
	logger.Info("bar created", "id", created.ID, "name", created.Name)
	return created.ID, true, nil
}

func (s *seeder) ensureUser(ctx context.Context, u seedUser) (bool, error) {
	exists, err := s.users.EmailExists(ctx, u.Email)
	if err != nil {
		return false, fmt.Errorf("check user %s: %w", u.Email, err)
	}
	if exists {
		logger.Info("user already exists, skipping", "email", u.Email)
		return false, nil
	}

	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return false, err
	}

	params := user.CreateParams{
		Name:         u.Name,
		Lastname:     u.Lastname,
		Email:        u.Email,
		PasswordHash: hash,
		Role:         u.Role,
	}
	if !u.Birthdate.IsZero() {
		params.Birthdate = &u.Birthdate
	}

	created, err := s.users.Create(ctx, params)
	if err != nil {
		return false, fmt.Errorf("create user %s: %w", u.Email, err)
	}
	logger.Info("user created", "id", created.ID, "email", created.Email, "role", created.Role)
	return true, nil
}
