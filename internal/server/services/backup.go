package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/notespal/internal/logging"
	sc "github.com/dmitrijs2005/notespal/internal/server/config"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportFormat identifies the backup document layout.
const ExportFormat = "notespal-backup/v1"

// ExportDocument is the JSON object written to storage. It carries notes
// exactly as stored; without the user's salt it reveals nothing.
type ExportDocument struct {
	Format     string       `json:"format"`
	UserID     string       `json:"user_id"`
	BindNoteID bool         `json:"bind_note_id"`
	ExportedAt time.Time    `json:"exported_at"`
	Notes      []ExportNote `json:"notes"`
}

type ExportNote struct {
	ID               string    `json:"id"`
	EncryptedContent string    `json:"encrypted_content"`
	EncryptionKey    string    `json:"encryption_key"`
	IV               string    `json:"iv"`
	TapeColor        string    `json:"tape_color"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BackupService exports a user's encrypted notes to S3-compatible storage.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, log logging.Logger) *BackupService {
	return &BackupService{
		db:          db,
		repomanager: m,
		config:      cfg,
		log:         log,
	}
}

// GetRandomStorageKey returns a unique object key for a user's backup.
func GetRandomStorageKey(userID string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("backups/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *BackupService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads every note of userID as stored and returns the object key
// with a presigned download link.
func (s *BackupService) Export(ctx context.Context, userID string) (*models.Backup, error) {
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		return nil, userError(err)
	}

	list, err := s.repomanager.Notes(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := ExportDocument{
		Format:     ExportFormat,
		UserID:     userID,
		BindNoteID: s.config.BindNoteID,
		ExportedAt: time.Now().UTC(),
		Notes:      make([]ExportNote, 0, len(list)),
	}
	for _, n := range list {
		doc.Notes = append(doc.Notes, ExportNote{
			ID:               n.ID,
			EncryptedContent: n.EncryptedContent,
			EncryptionKey:    n.EncryptionKey,
			IV:               n.IV,
			TapeColor:        n.TapeColor,
			CreatedAt:        n.CreatedAt,
			UpdatedAt:        n.UpdatedAt,
		})
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey(userID)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload backup: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign backup: %w", err)
	}

	s.log.Info(ctx, "backup exported", "user_id", userID, "notes", len(list), "key", key)
	return &models.Backup{StorageKey: key, URL: req.URL, Notes: len(list)}, nil
}
