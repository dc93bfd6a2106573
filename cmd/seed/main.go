// Package main seeds the database with an initial admin account and a few
// resident records for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"suratdesa/internal/config"
	"suratdesa/internal/core/apperror"
	"suratdesa/internal/domain/auth"
	"suratdesa/internal/domain/penduduk"
	"suratdesa/internal/infrastructure/storage/postgres"
	"suratdesa/internal/infrastructure/storage/postgres/auth_repo"
	"suratdesa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	seedAdmin(ctx, log, cfg, txManager)
	seedResidents(ctx, log, txManager)

	log.Info("seed complete")
}

func seedAdmin(ctx context.Context, log *logger.Logger, cfg *config.Config, txManager *postgres.TxManager) {
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	username := envOr("SEED_ADMIN_USERNAME", "admin")
	password := envOr("SEED_ADMIN_PASSWORD", "admin-desa-123")

	user, err := authService.CreateUser(ctx, username, password, "Administrator Desa", auth.RoleAdmin)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeConflict) {
			log.Infow("admin account already exists", "username", username)
			return
		}
		log.Fatalw("failed to create admin account", "error", err)
	}
	log.Infow("admin account created", "user_id", user.ID, "username", user.Username)
}

func seedResidents(ctx context.Context, log *logger.Logger, txManager *postgres.TxManager) {
	service := penduduk.NewService(postgres.NewPendudukRepo(txManager), log)

	residents := []*penduduk.Penduduk{
		{
			NIK:          "3201011503900001",
			Nama:         "Budi Santoso",
			TempatLahir:  "Bogor",
			TanggalLahir: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
			JenisKelamin: "L",
			Agama:        "Islam",
			Pekerjaan:    "Wiraswasta",
			StatusKawin:  "Kawin",
			Alamat:       "Jl. Raya Desa No. 12",
			RT:           "003",
			RW:           "001",
		},
		{
			NIK:          "3201014107850002",
			Nama:         "Siti Aminah",
			TempatLahir:  "Bogor",
			TanggalLahir: time.Date(1985, time.July, 1, 0, 0, 0, 0, time.UTC),
			JenisKelamin: "P",
			Agama:        "Islam",
			Pekerjaan:    "Ibu Rumah Tangga",
			StatusKawin:  "Kawin",
			Alamat:       "Jl. Raya Desa No. 12",
			RT:           "003",
			RW:           "001",
		},
		{
			NIK:          "3201012208000003",
			Nama:         "Agus Wijaya",
			TempatLahir:  "Sukabumi",
			TanggalLahir: time.Date(2000, time.August, 22, 0, 0, 0, 0, time.UTC),
			JenisKelamin: "L",
			Agama:        "Islam",
			Pekerjaan:    "Pelajar/Mahasiswa",
			StatusKawin:  "Belum Kawin",
			Alamat:       "Kp. Cibadak RT 05",
			RT:           "005",
			RW:           "002",
		},
	}

	for _, r := range residents {
		if err := service.Create(ctx, r); err != nil {
			if apperror.IsCode(err, apperror.CodeDuplicate) {
				log.Infow("resident already exists", "nik", r.NIK)
				continue
			}
			log.Fatalw("failed to seed resident", "nik", r.NIK, "error", err)
		}
		log.Infow("resident created", "nik", r.NIK, "nama", r.Nama)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
