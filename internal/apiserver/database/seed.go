package database

import (
	"context"
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// defaultCertificateTypes are the regularity certificates required by
// Brazilian procurement law. Seeded once on an empty database.
var defaultCertificateTypes = []CertificateType{
	{Code: "CND_FEDERAL", Name: "Certidão Negativa de Débitos Federais", RequiredForBidding: true, RequiredForContracting: true, ValidityDays: 180, APIAvailable: true},
	{Code: "CND_ESTADUAL", Name: "Certidão Negativa de Débitos Estaduais", RequiredForBidding: true, RequiredForContracting: true, ValidityDays: 180},
	{Code: "CND_MUNICIPAL", Name: "Certidão Negativa de Débitos Municipais", RequiredForBidding: true, RequiredForContracting: true, ValidityDays: 180},
	{Code: "FGTS", Name: "Certificado de Regularidade do FGTS", RequiredForBidding: true, RequiredForContracting: true, ValidityDays: 180, APIAvailable: true},
	{Code: "TRABALHISTA", Name: "Certidão Negativa de Débitos Trabalhistas", RequiredForBidding: true, RequiredForContracting: true, ValidityDays: 180, APIAvailable: true},
	{Code: "INSS", Name: "Certidão Negativa de Débitos do INSS", RequiredForBidding: true, RequiredForContracting: true, ValidityDays: 180, APIAvailable: true},
}

// Bootstrap seeds the certificate-type catalog and an initial ROOT user on
// first startup. It is a no-op when the tables already hold data.
func Bootstrap(ctx context.Context, store Store, cfg config.BootstrapConfig, logger *zap.Logger) error {
	certCount, err := store.CountCertificateTypes(ctx)
	if err != nil {
		return err
	}
	if certCount == 0 {
		for i := range defaultCertificateTypes {
			ct := defaultCertificateTypes[i]
			if err := store.CreateCertificateType(ctx, &ct); err != nil {
				return err
			}
		}
		logger.Info("seeded certificate types", zap.Int("count", len(defaultCertificateTypes)))
	}

	userCount, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	entity := &Entity{
		CNPJ:       "00000000000000",
		LegalName:  "Sistema Sentinela",
		TradeName:  "Sentinela",
		Status:     cnst.EntityActive,
		StatusDate: time.Now(),
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	root := &User{
		Name:         cfg.Name,
		CPF:          cfg.CPF,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         cnst.RoleRoot,
		Active:       true,
	}
	err = store.Transaction(ctx, func(ctx context.Context) error {
		if err := store.CreateEntity(ctx, entity); err != nil {
			return err
		}
		root.EntityID = &entity.ID
		return store.CreateUser(ctx, root)
	})
	if err != nil {
		return err
	}
	logger.Warn("created initial ROOT user, change the password",
		zap.String("email", root.Email))
	return nil
}
