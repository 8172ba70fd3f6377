package pncp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/pkg/utils"
)

// impedimentLimit bounds how many impediment descriptions are persisted
// on the supplier record.
const impedimentLimit = 3

// ApplyRegularity overwrites the supplier's regularity snapshot with the
// portal's answer. The portal is authoritative: local values always lose.
// Callers must only invoke this with a validated result.
func ApplyRegularity(supplier *database.Supplier, v *SupplierValidation, now time.Time) {
	supplier.RegistryStatus = v.RegistryStatus
	supplier.Regularity = v.Regularity
	supplier.ExpiredCertificates = v.ExpiredCertificates
	supplier.LastVerifiedAt = &now

	if len(v.Impediments) > 0 {
		supplier.ImpedimentDate = &now
		supplier.ImpedimentReason = strings.Join(utils.FirstN(v.Impediments, impedimentLimit), "; ")
	} else {
		supplier.ImpedimentDate = nil
		supplier.ImpedimentReason = ""
	}
}

// MergeResult summarizes one contract reconciliation run.
type MergeResult struct {
	Created int
	Updated int
	Skipped int
}

// MergeContracts folds the portal's contract list into the entity's
// records, matching on contract number. Existing contracts have their
// mutable fields refreshed, unknown ones are inserted tagged with the
// portal as source. Nothing is ever deleted: a contract absent from the
// portal's answer stays untouched.
func MergeContracts(ctx context.Context, store database.Store, entityID uint, supplier *database.Supplier, records []ContractRecord) (MergeResult, error) {
	var result MergeResult
	for i := range records {
		record := &records[i]
		number := strings.TrimSpace(record.Number)
		if number == "" {
			result.Skipped++
			continue
		}

		existing, err := store.GetContractByNumber(ctx, entityID, number)
		switch {
		case err == nil:
			applyContractUpdate(existing, record)
			if err := store.UpdateContract(ctx, existing); err != nil {
				return result, err
			}
			result.Updated++
		case errors.Is(err, cnst.ErrNotFound):
			status := record.Status
			if status == "" {
				status = cnst.ContractInForce
			}
			contract := &database.Contract{
				EntityID:      entityID,
				Number:        number,
				ProcessNumber: record.ProcessNumber,
				Object:        record.Object,
				SupplierID:    supplier.ID,
				GlobalValue:   record.GlobalValue,
				ExecutedValue: record.ExecutedValue,
				Status:        status,
				Modality:      record.Modality,
				Source:        cnst.SourcePNCP,
			}
			if err := store.CreateContract(ctx, contract); err != nil {
				return result, err
			}
			result.Created++
		default:
			return result, err
		}
	}
	return result, nil
}

// applyContractUpdate refreshes the fields the portal is allowed to
// change. Empty portal values keep the local ones so a sparse answer
// never blanks a record.
func applyContractUpdate(contract *database.Contract, record *ContractRecord) {
	if record.Object != "" {
		contract.Object = record.Object
	}
	if record.GlobalValue != 0 {
		contract.GlobalValue = record.GlobalValue
	}
	if record.ExecutedValue != 0 {
		contract.ExecutedValue = record.ExecutedValue
	}
	if record.Status != "" {
		contract.Status = record.Status
	}
	if record.Modality != "" {
		contract.Modality = record.Modality
	}
}
