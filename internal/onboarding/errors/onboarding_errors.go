package onboardingerrors

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
)

var (
	ErrFormNotFound = apperror.New(
		apperror.CodeNotFound,
		"Onboarding form not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrInvalidSection = apperror.New(
		apperror.CodeInvalidInput,
		"personal_info, bank_info and education_info must be non-empty JSON objects",
		http.StatusBadRequest,
	).WithReason("INVALID_SECTION")
	ErrInvalidAadhar = apperror.New(
		apperror.CodeInvalidInput,
		"aadhar_number must be exactly 12 digits",
		http.StatusBadRequest,
	).WithReason("INVALID_AADHAR")
	ErrInvalidPAN = apperror.New(
		apperror.CodeInvalidInput,
		"pan_number must look like ABCDE1234F",
		http.StatusBadRequest,
	).WithReason("INVALID_PAN")
	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"join_date must be YYYY-MM-DD",
		http.StatusBadRequest,
	).WithReason("INVALID_FIELD")
	ErrInvalidFormPayload = apperror.New(
		apperror.CodeInvalidInput,
		"The form field must contain the onboarding payload as JSON",
		http.StatusBadRequest,
	).WithReason("INVALID_FORM_PAYLOAD")
	ErrMissingDocuments = apperror.New(
		apperror.CodeInvalidInput,
		"Required documents are missing",
		http.StatusBadRequest,
	).WithReason("MISSING_DOCUMENTS")
	ErrUnknownDocumentType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown document type",
		http.StatusBadRequest,
	).WithReason("UNKNOWN_DOCUMENT_TYPE")
	ErrDuplicateDocument = apperror.New(
		apperror.CodeInvalidInput,
		"Each document type may be uploaded once per submission",
		http.StatusBadRequest,
	).WithReason("DUPLICATE_DOCUMENT")
	ErrFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"Uploaded file exceeds the size limit",
		http.StatusRequestEntityTooLarge,
	).WithReason("FILE_TOO_LARGE")
	ErrEmptyFile = apperror.New(
		apperror.CodeInvalidInput,
		"Uploaded file is empty",
		http.StatusBadRequest,
	).WithReason("EMPTY_FILE")
	ErrUnsupportedFileType = apperror.New(
		apperror.CodeInvalidInput,
		"Only PDF, JPEG and PNG files are accepted",
		http.StatusUnsupportedMediaType,
	).WithReason("UNSUPPORTED_FILE_TYPE")
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Document not found",
		http.StatusNotFound,
	)
	ErrStorageUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Document storage is unavailable",
		http.StatusServiceUnavailable,
	)
)
