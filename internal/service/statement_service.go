package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

type ExcelGenerator interface {
	Generate(statement model.AllowanceStatement) ([]byte, error)
}

type PDFGenerator interface {
	Generate(statement model.AllowanceStatement) ([]byte, error)
}

type StatementFormat string

const (
	StatementFormatXLSX StatementFormat = "xlsx"
	StatementFormatPDF  StatementFormat = "pdf"
)

// StatementService renders allowance statements for the landlord and tenant.
type StatementService struct {
	store *repository.Store
	excel ExcelGenerator
	pdf   PDFGenerator
	now   func() time.Time
}

type StatementResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

func NewStatementService(store *repository.Store, excel ExcelGenerator, pdf PDFGenerator) *StatementService {
	return &StatementService{
		store: store,
		excel: excel,
		pdf:   pdf,
		now:   time.Now,
	}
}

func (s *StatementService) Build(ctx context.Context, projectID string, caller model.Principal) (*model.AllowanceStatement, error) {
	repos := s.store.Read()

	allowance, err := repos.Allowances.Get(ctx, projectID)
	if err != nil {
		return nil, notFoundAs(err, ErrAllowanceNotFound)
	}
	if caller != allowance.Landlord && caller != allowance.Tenant {
		return nil, ErrNotAllowanceParty
	}

	milestones, err := repos.Allowances.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, err
	}
	height, err := repos.Ledger.Height(ctx)
	if err != nil {
		return nil, err
	}

	return &model.AllowanceStatement{
		Allowance:   *allowance,
		Milestones:  milestones,
		GeneratedAt: s.now().UTC(),
		Height:      height,
	}, nil
}

func (s *StatementService) Export(ctx context.Context, projectID string, format StatementFormat, caller model.Principal) (*StatementResult, error) {
	var (
		generate    func(model.AllowanceStatement) ([]byte, error)
		contentType string
	)
	switch format {
	case StatementFormatXLSX:
		generate = s.excel.Generate
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case StatementFormatPDF:
		generate = s.pdf.Generate
		contentType = "application/pdf"
	default:
		return nil, fmt.Errorf("%w: unsupported statement format %q", ErrInvalidInput, format)
	}

	statement, err := s.Build(ctx, projectID, caller)
	if err != nil {
		return nil, err
	}
	content, err := generate(*statement)
	if err != nil {
		return nil, err
	}

	return &StatementResult{
		FileName:    buildFileName(*statement, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func buildFileName(statement model.AllowanceStatement, format StatementFormat) string {
	project := sanitizeFileName(statement.Allowance.ProjectID)
	if project == "" {
		project = "project"
	}
	return fmt.Sprintf("allowance-%s-%s.%s", project, statement.GeneratedAt.Format("20060102"), format)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
