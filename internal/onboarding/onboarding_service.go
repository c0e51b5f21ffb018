package onboarding

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	"github.com/Jstali/employee-onboarding-sub000/internal/domain"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"
	onboardingerrors "github.com/Jstali/employee-onboarding-sub000/internal/onboarding/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/sanitize"
	"github.com/Jstali/employee-onboarding-sub000/internal/storage"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultMaxUploadSize = 5 << 20
	sniffLen             = 512
)

//go:generate mockgen -source=onboarding_service.go -destination=mock/onboarding_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, userID string, req SubmitRequest, files []FileUpload) (FormResponse, error)
	GetMine(ctx context.Context, userID string) (FormResponse, error)
	Get(ctx context.Context, userID string) (FormResponse, error)
	List(ctx context.Context, filter ListFilter) ([]FormSummary, int64, error)
	UpdateForm(ctx context.Context, userID string, req UpdateFormRequest) (FormResponse, error)
	DeleteForm(ctx context.Context, userID string) error
	Approve(ctx context.Context, userID string) (ReviewResponse, error)
	Reject(ctx context.Context, userID string, req RejectRequest) (ReviewResponse, error)
	ListDocuments(ctx context.Context, userID string) ([]DocumentResponse, error)
	OpenDocument(ctx context.Context, requesterID, requesterRole, docID string) (DocumentDownload, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	users         user.Repository
	objects       storage.ObjectStorage
	audit         audit.Recorder
	notifier      notification.Notifier
	maxUploadSize int64
	appURL        string
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	objects storage.ObjectStorage,
	recorder audit.Recorder,
	notifier notification.Notifier,
	maxUploadSize int64,
	appURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("onboarding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.service")
	}
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &service{
		db:            db,
		repo:          repo,
		users:         users,
		objects:       objects,
		audit:         recorder,
		notifier:      notifier,
		maxUploadSize: maxUploadSize,
		appURL:        appURL,
		logger:        l,
	}
}

type preparedFile struct {
	upload   FileUpload
	mimeType string
	body     io.Reader
}

func (s *service) Submit(ctx context.Context, userID string, req SubmitRequest, files []FileUpload) (FormResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("onboarding submit requested",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.Int("files", len(files)),
	)

	if err := validateSubmit(req); err != nil {
		return FormResponse{}, err
	}
	joinDate, err := parseJoinDate(req.JoinDate)
	if err != nil {
		return FormResponse{}, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FormResponse{}, onboardingerrors.ErrUserNotFound
		}
		return FormResponse{}, err
	}
	if err := lifecycle.Check(u.State(), lifecycle.TriggerSubmitForm); err != nil {
		return FormResponse{}, err
	}

	prepared, err := s.prepareFiles(files)
	if err != nil {
		return FormResponse{}, err
	}

	existing, err := s.repo.DocumentTypes(ctx, userID)
	if err != nil {
		return FormResponse{}, err
	}
	if missing := missingRequired(existing, prepared); len(missing) > 0 {
		s.logger.Info("onboarding submit missing documents",
			zap.String("user_id", userID),
			zap.Strings("missing", missing),
		)
		return FormResponse{}, onboardingerrors.ErrMissingDocuments
	}

	// Uploads happen before the transaction; every early return from here
	// on must release what was stored.
	docs, err := s.upload(ctx, u.ID, prepared)
	if err != nil {
		return FormResponse{}, err
	}
	committed := false
	defer func() {
		if !committed {
			s.discard(ctx, docs)
		}
	}()

	var photoURL *string
	for _, d := range docs {
		if d.DocumentType == DocProfilePhoto {
			loc := d.StoragePath
			photoURL = &loc
		}
	}
	if photoURL == nil {
		if prev, err := s.repo.FindByUserID(ctx, userID); err == nil {
			photoURL = prev.PhotoURL
		}
	}

	now := time.Now().UTC()
	form := &Form{
		ID:               uuid.New(),
		UserID:           u.ID,
		PersonalInfo:     req.PersonalInfo,
		BankInfo:         req.BankInfo,
		EducationInfo:    req.EducationInfo,
		TechCertificates: req.TechCertificates,
		WorkExperience:   req.WorkExperience,
		ContractPeriod:   req.ContractPeriod,
		AadharNumber:     req.AadharNumber,
		PANNumber:        strings.ToUpper(req.PANNumber),
		PassportNumber:   sanitize.TextPtr(req.PassportNumber),
		PhotoURL:         photoURL,
		JoinDate:         joinDate,
		SubmittedAt:      now,
		UpdatedAt:        now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("onboarding submit begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return FormResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.users.WithTx(tx)

	if err := qtx.Upsert(ctx, form); err != nil {
		s.logger.Error("onboarding form upsert failed", zap.String("user_id", userID), zap.Error(err))
		return FormResponse{}, mapRepositoryError(err)
	}
	if err := qtx.CreateDocuments(ctx, docs); err != nil {
		s.logger.Error("onboarding documents insert failed", zap.String("user_id", userID), zap.Error(err))
		return FormResponse{}, mapRepositoryError(err)
	}

	target, _ := lifecycle.Target(lifecycle.TriggerSubmitForm)
	ok, err := utx.TransitionStatus(ctx, userID, lifecycle.AllowedFrom(lifecycle.TriggerSubmitForm), target)
	if err != nil {
		return FormResponse{}, err
	}
	if !ok {
		return FormResponse{}, s.guardAfterRace(ctx, utx, userID, lifecycle.TriggerSubmitForm)
	}

	types := make([]string, len(docs))
	for i, d := range docs {
		types[i] = string(d.DocumentType)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionFormSubmitted,
		TargetID: userID,
		Details:  map[string]any{"documents": types, "resubmission": u.Status == lifecycle.StatusFormSubmitted},
	}); err != nil {
		return FormResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("onboarding submit commit failed", zap.String("request_id", rid), zap.Error(err))
		return FormResponse{}, err
	}
	committed = true

	s.logger.Info("onboarding form submitted",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.Int("documents", len(docs)),
	)
	return s.load(ctx, userID)
}

func (s *service) GetMine(ctx context.Context, userID string) (FormResponse, error) {
	return s.load(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID string) (FormResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return FormResponse{}, onboardingerrors.ErrInvalidUserID
	}
	return s.load(ctx, userID)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]FormSummary, int64, error) {
	q := ListQuery{
		Statuses: lifecycle.StatusesForReview(filter.ReviewStatus),
		Limit:    filter.PageSize,
		Offset:   (filter.Page - 1) * filter.PageSize,
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list onboarding forms failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToSummaries(rows), total, nil
}

func (s *service) UpdateForm(ctx context.Context, userID string, req UpdateFormRequest) (FormResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return FormResponse{}, onboardingerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FormResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	form, err := qtx.FindByUserID(ctx, userID)
	if err != nil {
		return FormResponse{}, mapRepositoryError(err)
	}

	changed, err := applyUpdate(form, req)
	if err != nil {
		return FormResponse{}, err
	}
	if len(changed) == 0 {
		return s.load(ctx, userID)
	}

	if err := qtx.Update(ctx, form); err != nil {
		s.logger.Error("onboarding form update failed", zap.String("user_id", userID), zap.Error(err))
		return FormResponse{}, mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionFormUpdated,
		TargetID: userID,
		Details:  map[string]any{"fields": changed},
	}); err != nil {
		return FormResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return FormResponse{}, err
	}

	s.logger.Info("onboarding form updated", zap.String("user_id", userID), zap.Strings("fields", changed))
	return s.load(ctx, userID)
}

// DeleteForm removes the form row only. Documents and the user's status
// are left untouched.
func (s *service) DeleteForm(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return onboardingerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, userID); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionFormDeleted,
		TargetID: userID,
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("onboarding form deleted", zap.String("user_id", userID))
	return nil
}

func (s *service) Approve(ctx context.Context, userID string) (ReviewResponse, error) {
	return s.review(ctx, userID, lifecycle.TriggerApprove, "")
}

func (s *service) Reject(ctx context.Context, userID string, req RejectRequest) (ReviewResponse, error) {
	return s.review(ctx, userID, lifecycle.TriggerReject, sanitize.Text(req.Reason))
}

func (s *service) review(ctx context.Context, userID string, trigger lifecycle.Trigger, reason string) (ReviewResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(userID); err != nil {
		return ReviewResponse{}, onboardingerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("onboarding review begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	utx := s.users.WithTx(tx)
	u, err := utx.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, onboardingerrors.ErrUserNotFound
		}
		return ReviewResponse{}, err
	}
	if err := lifecycle.Check(u.State(), trigger); err != nil {
		s.logger.Info("onboarding review rejected by lifecycle",
			zap.String("user_id", userID),
			zap.String("trigger", string(trigger)),
			zap.String("state", string(u.State())),
		)
		return ReviewResponse{}, err
	}
	if _, err := s.repo.WithTx(tx).FindByUserID(ctx, userID); err != nil {
		return ReviewResponse{}, mapRepositoryError(err)
	}

	target, _ := lifecycle.Target(trigger)
	ok, err := utx.TransitionStatus(ctx, userID, lifecycle.AllowedFrom(trigger), target)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !ok {
		return ReviewResponse{}, s.guardAfterRace(ctx, utx, userID, trigger)
	}

	action := audit.ActionOnboardingApproved
	msg := notification.Message{
		Kind:   notification.KindOnboardingApproved,
		To:     u.Email,
		UserID: userID,
		Data:   map[string]string{"name": u.Name, "app_url": s.appURL},
	}
	details := map[string]any{"from": string(u.Status), "to": string(target)}
	if trigger == lifecycle.TriggerReject {
		action = audit.ActionOnboardingRejected
		msg.Kind = notification.KindOnboardingRejected
		msg.Data["reason"] = reason
		details["reason"] = reason
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{Action: action, TargetID: userID, Details: details}); err != nil {
		return ReviewResponse{}, err
	}
	if err := s.notifier.Stage(ctx, tx, msg); err != nil {
		s.logger.Error("stage review notification failed", zap.String("request_id", rid), zap.Error(err))
		return ReviewResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("onboarding review commit failed", zap.String("request_id", rid), zap.Error(err))
		return ReviewResponse{}, err
	}

	s.notifier.Deliver(ctx, msg)

	s.logger.Info("onboarding reviewed",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("decision", string(target)),
	)
	return ReviewResponse{
		UserID:       userID,
		Status:       string(target),
		ReviewStatus: lifecycle.ReviewStatus(target),
		State:        lifecycle.Derive(target, u.InRoster),
		Flags:        lifecycle.FlagsOf(target),
	}, nil
}

func (s *service) ListDocuments(ctx context.Context, userID string) ([]DocumentResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, onboardingerrors.ErrInvalidUserID
	}
	docs, err := s.repo.ListDocuments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapDocuments(docs), nil
}

// OpenDocument streams a document to its owner or to HR. Anyone else gets
// a not-found so document ids cannot be enumerated.
func (s *service) OpenDocument(ctx context.Context, requesterID, requesterRole, docID string) (DocumentDownload, error) {
	if _, err := uuid.Parse(docID); err != nil {
		return DocumentDownload{}, onboardingerrors.ErrDocumentNotFound
	}
	doc, err := s.repo.FindDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentDownload{}, onboardingerrors.ErrDocumentNotFound
		}
		return DocumentDownload{}, err
	}
	if requesterRole != domain.RoleHR && doc.UserID.String() != requesterID {
		s.logger.Warn("document access denied",
			zap.String("document_id", docID),
			zap.String("requester_id", requesterID),
		)
		return DocumentDownload{}, onboardingerrors.ErrDocumentNotFound
	}

	body, err := s.objects.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Error("document row without object", zap.String("document_id", docID))
			return DocumentDownload{}, onboardingerrors.ErrDocumentNotFound
		}
		s.logger.Error("open document failed", zap.String("document_id", docID), zap.Error(err))
		return DocumentDownload{}, onboardingerrors.ErrStorageUnavailable.WithCause(err)
	}
	return DocumentDownload{
		Filename: doc.OriginalFilename,
		MimeType: doc.MimeType,
		Size:     doc.SizeBytes,
		Body:     body,
	}, nil
}

func (s *service) load(ctx context.Context, userID string) (FormResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FormResponse{}, onboardingerrors.ErrUserNotFound
		}
		return FormResponse{}, err
	}
	form, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return FormResponse{}, mapRepositoryError(err)
	}
	docs, err := s.repo.ListDocuments(ctx, userID)
	if err != nil {
		return FormResponse{}, err
	}
	return mapToResponse(*form, u.Status, u.InRoster, docs), nil
}

// guardAfterRace re-reads the user after a conditional update matched no
// row and reports the guard that now fails.
func (s *service) guardAfterRace(ctx context.Context, users user.Repository, userID string, trigger lifecycle.Trigger) error {
	u, err := users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := lifecycle.Check(u.State(), trigger); err != nil {
		return err
	}
	return apperror.ErrInternal
}

func (s *service) prepareFiles(files []FileUpload) ([]preparedFile, error) {
	seen := make(map[DocumentType]bool, len(files))
	out := make([]preparedFile, 0, len(files))
	for _, f := range files {
		if !f.DocumentType.Valid() {
			return nil, onboardingerrors.ErrUnknownDocumentType
		}
		if seen[f.DocumentType] {
			return nil, onboardingerrors.ErrDuplicateDocument
		}
		seen[f.DocumentType] = true

		if f.Size <= 0 {
			return nil, onboardingerrors.ErrEmptyFile
		}
		if f.Size > s.maxUploadSize {
			return nil, onboardingerrors.ErrFileTooLarge
		}

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(f.Content, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, err
		}
		head = head[:n]
		if n == 0 {
			return nil, onboardingerrors.ErrEmptyFile
		}

		sniffed := normalizeMIME(http.DetectContentType(head))
		if !allowedMIMETypes[sniffed] {
			return nil, onboardingerrors.ErrUnsupportedFileType
		}
		if declared := normalizeMIME(f.ContentType); declared != "" &&
			declared != "application/octet-stream" && declared != sniffed {
			return nil, onboardingerrors.ErrUnsupportedFileType
		}

		out = append(out, preparedFile{
			upload:   f,
			mimeType: sniffed,
			body:     io.MultiReader(bytes.NewReader(head), f.Content),
		})
	}
	return out, nil
}

func (s *service) upload(ctx context.Context, uid uuid.UUID, files []preparedFile) ([]Document, error) {
	docs := make([]Document, 0, len(files))
	userID := uid.String()
	for _, f := range files {
		key := storage.DocumentKey(userID, string(f.upload.DocumentType), f.upload.Filename)
		loc, err := s.objects.Put(ctx, key, f.body, f.upload.Size, f.mimeType)
		if err != nil {
			s.logger.Error("document upload failed",
				zap.String("user_id", userID),
				zap.String("document_type", string(f.upload.DocumentType)),
				zap.Error(err),
			)
			s.discard(ctx, docs)
			return nil, onboardingerrors.ErrStorageUnavailable.WithCause(err)
		}
		docs = append(docs, Document{
			ID:               uuid.New(),
			UserID:           uid,
			DocumentType:     f.upload.DocumentType,
			OriginalFilename: sanitize.Text(f.upload.Filename),
			StoragePath:      loc,
			SizeBytes:        f.upload.Size,
			MimeType:         f.mimeType,
			IsRequired:       f.upload.DocumentType.Required(),
			UploadedAt:       time.Now().UTC(),
		})
	}
	return docs, nil
}

// discard deletes uploaded objects whose rows were never committed.
func (s *service) discard(ctx context.Context, docs []Document) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, d := range docs {
		if err := s.objects.Delete(cleanupCtx, d.StoragePath); err != nil {
			s.logger.Warn("discard uploaded document failed",
				zap.String("location", d.StoragePath),
				zap.Error(err),
			)
		}
	}
}

func validateSubmit(req SubmitRequest) error {
	if !req.PersonalInfo.IsObject() || !req.BankInfo.IsObject() || !req.EducationInfo.IsObject() {
		return onboardingerrors.ErrInvalidSection
	}
	for _, p := range []Payload{req.TechCertificates, req.WorkExperience, req.ContractPeriod} {
		if !p.Valid() {
			return onboardingerrors.ErrInvalidSection
		}
	}
	if !apperror.IsAadhar(req.AadharNumber) {
		return onboardingerrors.ErrInvalidAadhar
	}
	if !apperror.IsPAN(req.PANNumber) {
		return onboardingerrors.ErrInvalidPAN
	}
	return nil
}

func applyUpdate(f *Form, req UpdateFormRequest) ([]string, error) {
	var changed []string
	required := []struct {
		name string
		src  Payload
		dst  *Payload
	}{
		{"personal_info", req.PersonalInfo, &f.PersonalInfo},
		{"bank_info", req.BankInfo, &f.BankInfo},
		{"education_info", req.EducationInfo, &f.EducationInfo},
	}
	for _, sec := range required {
		if sec.src == nil {
			continue
		}
		if !sec.src.IsObject() {
			return nil, onboardingerrors.ErrInvalidSection
		}
		*sec.dst = sec.src
		changed = append(changed, sec.name)
	}

	optional := []struct {
		name string
		src  Payload
		dst  *Payload
	}{
		{"tech_certificates", req.TechCertificates, &f.TechCertificates},
		{"work_experience", req.WorkExperience, &f.WorkExperience},
		{"contract_period", req.ContractPeriod, &f.ContractPeriod},
	}
	for _, sec := range optional {
		if sec.src == nil {
			continue
		}
		if !sec.src.Valid() {
			return nil, onboardingerrors.ErrInvalidSection
		}
		*sec.dst = sec.src
		changed = append(changed, sec.name)
	}

	if req.AadharNumber != nil {
		if !apperror.IsAadhar(*req.AadharNumber) {
			return nil, onboardingerrors.ErrInvalidAadhar
		}
		f.AadharNumber = *req.AadharNumber
		changed = append(changed, "aadhar_number")
	}
	if req.PANNumber != nil {
		if !apperror.IsPAN(*req.PANNumber) {
			return nil, onboardingerrors.ErrInvalidPAN
		}
		f.PANNumber = strings.ToUpper(*req.PANNumber)
		changed = append(changed, "pan_number")
	}
	if req.PassportNumber != nil {
		f.PassportNumber = sanitize.TextPtr(req.PassportNumber)
		changed = append(changed, "passport_number")
	}
	if req.JoinDate != nil {
		d, err := parseJoinDate(req.JoinDate)
		if err != nil {
			return nil, err
		}
		f.JoinDate = d
		changed = append(changed, "join_date")
	}
	return changed, nil
}

func parseJoinDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, onboardingerrors.ErrInvalidJoinDate
	}
	return &d, nil
}

func missingRequired(existing []DocumentType, files []preparedFile) []string {
	have := slices.Clone(existing)
	for _, f := range files {
		have = append(have, f.upload.DocumentType)
	}
	var missing []string
	for _, t := range RequiredDocuments {
		if !slices.Contains(have, t) {
			missing = append(missing, string(t))
		}
	}
	return missing
}

func normalizeMIME(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	return ct
}
