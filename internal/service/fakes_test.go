package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/classboard/classwork-service/internal/repository"
)

type fakeClassRepo struct {
	mu      sync.Mutex
	classes map[string]*models.Class
	// getByCodeBlind эмулирует окно гонки: предварительная проверка кода
	// не видит чужую вставку, и дубликат ловит только ограничение в Create.
	getByCodeBlind bool
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[string]*models.Class)}
}

func (r *fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.classes {
		if existing.ClassCode == class.ClassCode {
			return repository.ErrDuplicateClassCode
		}
	}
	copied := *class
	r.classes[class.ID] = &copied
	return nil
}

func (r *fakeClassRepo) GetByID(ctx context.Context, id string) (*models.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	class, ok := r.classes[id]
	if !ok {
		return nil, nil
	}
	copied := *class
	return &copied, nil
}

func (r *fakeClassRepo) GetByCode(ctx context.Context, code string) (*models.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getByCodeBlind {
		return nil, nil
	}
	for _, class := range r.classes {
		if class.ClassCode == code {
			copied := *class
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeClassRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Class, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Class
	for _, class := range r.classes {
		result = append(result, *class)
	}
	return result, len(result), nil
}

func (r *fakeClassRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.classes[id]
	return ok, nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string]*models.Assignment
	deleteErr   error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*models.Assignment)}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *assignment
	r.assignments[assignment.ID] = &copied
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}
	copied := *assignment
	return &copied, nil
}

func (r *fakeAssignmentRepo) GetByClassID(ctx context.Context, classID string) ([]models.AssignmentWithStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.AssignmentWithStats
	for _, assignment := range r.assignments {
		if assignment.ClassID == classID {
			result = append(result, models.AssignmentWithStats{Assignment: *assignment})
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.assignments[id]
	return ok, nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]*models.Submission
	createErr   error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]*models.Submission)}
}

func (r *fakeSubmissionRepo) GetOrCreate(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.ProfileID == submission.ProfileID {
			copied := *existing
			return &copied, nil
		}
	}
	copied := *submission
	r.submissions[submission.ID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission, ok := r.submissions[id]
	if !ok {
		return nil, nil
	}
	copied := *submission
	return &copied, nil
}

func (r *fakeSubmissionRepo) GetByAssignmentAndProfile(ctx context.Context, assignmentID, profileID string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID && submission.ProfileID == profileID {
			copied := *submission
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Submission
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID {
			result = append(result, *submission)
		}
	}
	return result, nil
}

func (r *fakeSubmissionRepo) DeleteByAssignmentID(ctx context.Context, assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, submission := range r.submissions {
		if submission.AssignmentID == assignmentID {
			delete(r.submissions, id)
		}
	}
	return nil
}

type fakeFileRepo struct {
	mu          sync.Mutex
	files       map[string]*models.SubmissionFile
	byAssign    map[string]string // file id -> assignment id
	createErr   error
	deleteErr   error
	createCalls int
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		files:    make(map[string]*models.SubmissionFile),
		byAssign: make(map[string]string),
	}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.SubmissionFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) addForAssignment(file models.SubmissionFile, assignmentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := file
	r.files[file.ID] = &copied
	r.byAssign[file.ID] = assignmentID
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*models.SubmissionFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, ok := r.files[id]
	if !ok {
		return nil, nil
	}
	copied := *file
	return &copied, nil
}

func (r *fakeFileRepo) GetBySubmissionID(ctx context.Context, submissionID string) ([]models.SubmissionFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.SubmissionFile
	for _, file := range r.files {
		if file.SubmissionID == submissionID {
			result = append(result, *file)
		}
	}
	return result, nil
}

func (r *fakeFileRepo) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.SubmissionFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.SubmissionFile
	for id, file := range r.files {
		if r.byAssign[id] == assignmentID {
			result = append(result, *file)
		}
	}
	return result, nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.files, id)
	delete(r.byAssign, id)
	return nil
}

func (r *fakeFileRepo) DeleteByAssignmentID(ctx context.Context, assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.files {
		if r.byAssign[id] == assignmentID {
			delete(r.files, id)
			delete(r.byAssign, id)
		}
	}
	return nil
}

var errFakeStorage = errors.New("storage unavailable")

type fakeStorage struct {
	mu             sync.Mutex
	objects        map[string][]byte
	failUploads    bool
	failDownloads  map[string]bool
	failDelete     bool
	failBatch      bool
	deletedKeys    []string
	downloadCalls  int
	uploadedKeys   []string
	batchDeleteLen int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:       make(map[string][]byte),
		failDownloads: make(map[string]bool),
	}
}

func (s *fakeStorage) UploadFile(ctx context.Context, bucket, key string, file io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUploads {
		return errFakeStorage
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.objects[key] = content
	s.uploadedKeys = append(s.uploadedKeys, key)
	return nil
}

func (s *fakeStorage) DownloadFile(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadCalls++
	if s.failDownloads[key] {
		return nil, 0, errFakeStorage
	}
	content, ok := s.objects[key]
	if !ok {
		return nil, 0, errFakeStorage
	}
	return io.NopCloser(bytes.NewReader(content)), int64(len(content)), nil
}

func (s *fakeStorage) DeleteFile(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errFakeStorage
	}
	delete(s.objects, key)
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

func (s *fakeStorage) DeleteFiles(ctx context.Context, bucket string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failBatch {
		return errFakeStorage
	}
	for _, key := range keys {
		delete(s.objects, key)
		s.deletedKeys = append(s.deletedKeys, key)
	}
	s.batchDeleteLen = len(keys)
	return nil
}

func (s *fakeStorage) FileExists(ctx context.Context, bucket, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}
