package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultMaxCategoryDepth bounds the category recursion when none is configured
const DefaultMaxCategoryDepth = 32

// TaxonomyReport counts what one tree import did
type TaxonomyReport struct {
	Created   int `json:"created"`
	Existing  int `json:"existing"`
	Missing   int `json:"missing"`
	Revisited int `json:"revisited"`
	Truncated int `json:"truncated"`
	Failed    int `json:"failed"`
}

// taxonomyRun is the state of one tree import
type taxonomyRun struct {
	vocabularyID string
	visited      map[int]bool
	report       *TaxonomyReport
}

// TaxonomyImporter mirrors the remote category tree as taxonomy terms.
// Existing terms are never updated.
type TaxonomyImporter struct {
	source       integration.CategorySource
	vocabularies catalog.VocabularyRepository
	terms        catalog.TermRepository
	schema       *SchemaProvisioner
	maxDepth     int
	logger       *zap.Logger
}

// NewTaxonomyImporter creates a new TaxonomyImporter
func NewTaxonomyImporter(
	source integration.CategorySource,
	vocabularies catalog.VocabularyRepository,
	terms catalog.TermRepository,
	schema *SchemaProvisioner,
	maxDepth int,
	logger *zap.Logger,
) *TaxonomyImporter {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCategoryDepth
	}
	return &TaxonomyImporter{
		source:       source,
		vocabularies: vocabularies,
		terms:        terms,
		schema:       schema,
		maxDepth:     maxDepth,
		logger:       logger.Named("taxonomy"),
	}
}

// EnsureVocabulary loads the vocabulary or creates it with the given name
func (t *TaxonomyImporter) EnsureVocabulary(ctx context.Context, vocabularyID, name string) (*catalog.Vocabulary, error) {
	vocabulary, err := t.vocabularies.FindByID(ctx, vocabularyID)
	if err == nil {
		return vocabulary, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: load vocabulary: %v", integration.ErrPersistence, err)
	}
	vocabulary = &catalog.Vocabulary{ID: vocabularyID, Name: name}
	if err := t.vocabularies.Save(ctx, vocabulary); err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: create vocabulary: %v", integration.ErrPersistence, err)
	}
	t.logger.Info("Created vocabulary", zap.String("vocabulary", vocabularyID))
	return vocabulary, nil
}

// ImportTree imports the whole remote category hierarchy. The children of
// the remote root become root terms.
func (t *TaxonomyImporter) ImportTree(ctx context.Context, vocabularyID string) (*TaxonomyReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "taxonomy", "import_tree",
		telemetry.WithAttribute("vocabulary", vocabularyID),
	)
	defer span.End()

	if _, err := t.EnsureVocabulary(ctx, vocabularyID, catalog.DefaultVocabularyLabel); err != nil {
		return nil, err
	}
	root, err := t.source.GetCategoriesHierarchy(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("fetch category hierarchy: %w", err)
	}

	run := t.newRun(vocabularyID)
	for _, child := range root.ChildrenData {
		t.importSubtree(ctx, run, child, nil, 1)
	}
	t.logger.Info("Category tree imported",
		zap.String("vocabulary", vocabularyID),
		zap.Int("created", run.report.Created),
		zap.Int("existing", run.report.Existing),
		zap.Int("missing", run.report.Missing),
		zap.Int("failed", run.report.Failed),
	)
	return run.report, ctx.Err()
}

// ImportSubtree imports category and its descendants under parents
// (nil for root terms)
func (t *TaxonomyImporter) ImportSubtree(ctx context.Context, category integration.SourceCategory, vocabularyID string, parents []uint) *TaxonomyReport {
	run := t.newRun(vocabularyID)
	t.importSubtree(ctx, run, category, parents, 1)
	return run.report
}

func (t *TaxonomyImporter) newRun(vocabularyID string) *taxonomyRun {
	return &taxonomyRun{
		vocabularyID: vocabularyID,
		visited:      make(map[int]bool),
		report:       &TaxonomyReport{},
	}
}

func (t *TaxonomyImporter) importSubtree(ctx context.Context, run *taxonomyRun, category integration.SourceCategory, parents []uint, depth int) {
	if ctx.Err() != nil {
		return
	}
	log := t.logger.With(zap.Int("category_id", category.ID), zap.String("name", category.Name))
	if depth > t.maxDepth {
		log.Warn("Category tree deeper than limit, branch truncated", zap.Int("max_depth", t.maxDepth))
		run.report.Truncated++
		return
	}
	if run.visited[category.ID] {
		log.Warn("Category reached twice, branch skipped")
		run.report.Revisited++
		return
	}
	run.visited[category.ID] = true

	remote, err := t.source.GetCategory(ctx, category.ID)
	if err != nil {
		log.Debug("Category not available, branch ends", zap.Error(err))
		run.report.Missing++
		return
	}

	term, err := t.terms.FindByNameAndParents(ctx, run.vocabularyID, category.Name, parents)
	switch {
	case err == nil:
		run.report.Existing++
	case errors.Is(err, shared.ErrNotFound):
		term, err = t.createTerm(ctx, run.vocabularyID, category, remote, parents)
		if err != nil {
			log.Error("Failed to create term", zap.Error(err))
			run.report.Failed++
			return
		}
		run.report.Created++
	default:
		log.Error("Failed to look up term", zap.Error(err))
		run.report.Failed++
		return
	}

	for _, child := range category.ChildrenData {
		t.importSubtree(ctx, run, child, []uint{term.ID}, depth+1)
	}
}

// createTerm builds a new term. Attributes with a matching term field are
// copied; unknown ones get a field provisioned for later imports.
func (t *TaxonomyImporter) createTerm(ctx context.Context, vocabularyID string, category integration.SourceCategory, remote *integration.SourceCategory, parents []uint) (*catalog.Term, error) {
	term, err := catalog.NewTerm(vocabularyID, category.Name, parents)
	if err != nil {
		return nil, err
	}
	term.SourceID = category.ID

	for _, attr := range remote.CustomAttributes {
		code := attr.AttributeCode
		if t.schema.HasField(ctx, catalog.KindTerm, vocabularyID, code) {
			if code != integration.AttributeCodePath {
				term.Fields.Set(code, catalog.TextItem(attr.Value.String()))
			}
			continue
		}
		def, err := t.source.GetCategoryAttribute(ctx, code)
		if err != nil {
			t.logger.Debug("Category attribute definition unavailable", zap.String("code", code), zap.Error(err))
			continue
		}
		t.schema.EnsureField(ctx, catalog.FieldSpec{
			EntityKind: catalog.KindTerm,
			Bundle:     vocabularyID,
			FieldName:  code,
			FieldKind:  FieldKindFor(def),
		})
	}

	if err := t.terms.Save(ctx, term); err != nil {
		return nil, fmt.Errorf("%w: save term: %v", integration.ErrPersistence, err)
	}
	return term, nil
}

// TermForCategory resolves a remote category id to the id of the term with
// the category's name
func (t *TaxonomyImporter) TermForCategory(ctx context.Context, categoryID int) (uint, error) {
	category, err := t.source.GetCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	term, err := t.terms.FindByName(ctx, category.Name)
	if err != nil {
		return 0, err
	}
	return term.ID, nil
}
