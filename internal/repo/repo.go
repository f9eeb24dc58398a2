package repo

import (
	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

// Repos 所有 GORM 仓储，main 里一次性构造
type Repos struct {
	Users           *UserRepo
	Specializations *SpecializationRepo
	Properties      *PropertyRepo
	Media           *MediaRepo
	Assignments     *AssignmentRepo
	Contracts       *ContractRepo
	Payments        *PaymentRepo
	Messages        *MessageRepo
	Reports         *ReportRepo
}

func New(db *gorm.DB) *Repos {
	return &Repos{
		Users:           NewUserRepo(db),
		Specializations: NewSpecializationRepo(db),
		Properties:      NewPropertyRepo(db),
		Media:           NewMediaRepo(db),
		Assignments:     NewAssignmentRepo(db),
		Contracts:       NewContractRepo(db),
		Payments:        NewPaymentRepo(db),
		Messages:        NewMessageRepo(db),
		Reports:         NewReportRepo(db),
	}
}

var (
	_ domain.UserRepository           = (*UserRepo)(nil)
	_ domain.SpecializationRepository = (*SpecializationRepo)(nil)
	_ domain.PropertyRepository       = (*PropertyRepo)(nil)
	_ domain.MediaRepository          = (*MediaRepo)(nil)
	_ domain.AssignmentRepository     = (*AssignmentRepo)(nil)
	_ domain.ContractRepository       = (*ContractRepo)(nil)
	_ domain.PaymentRepository        = (*PaymentRepo)(nil)
	_ domain.MessageRepository        = (*MessageRepo)(nil)
	_ domain.ReportRepository         = (*ReportRepo)(nil)
)
