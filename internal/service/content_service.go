package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const uploadProgressKeyPrefix = "upload_progress:"

// ContentService handles lesson video ingestion: MIME validation, ffprobe
// metadata extraction, storage upload, and chunked uploads with redis-backed
// progress so resumable clients can share state across instances.
type ContentService struct {
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
	Cfg            *config.Config
	Redis          *redis.Client
}

func NewContentService(courseRepo *repository.CourseRepository, storageService *StorageService, cfg *config.Config, rdb *redis.Client) *ContentService {
	return &ContentService{
		CourseRepo:     courseRepo,
		StorageService: storageService,
		Cfg:            cfg,
		Redis:          rdb,
	}
}

// UploadLessonVideo stores the video file and creates the lesson video row
// with the probed duration.
func (s *ContentService) UploadLessonVideo(ctx context.Context, file *multipart.FileHeader, lessonID uint, title string, orderIndex int) (*model.LessonVideo, error) {
	if _, err := s.CourseRepo.FindLessonByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return nil, util.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return nil, util.ErrInvalidFileType
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}
	tempPath := filepath.Join(tempDir, fmt.Sprintf("video_%s%s", model.GenerateUUID(), ext))
	defer os.Remove(tempPath)

	dst, err := os.Create(tempPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	return s.finalizeVideo(ctx, tempPath, file.Filename, file.Header.Get("Content-Type"), lessonID, title, orderIndex)
}

// UploadVideoChunk accepts one chunk of a resumable upload. Progress lives in
// redis under the client's identifier; when the last chunk lands the parts
// are assembled and the video goes through the same finalize path as a
// single-shot upload.
func (s *ContentService) UploadVideoChunk(ctx context.Context, chunkFile *multipart.FileHeader, chunkNumber, totalChunks int, identifier, filename string, lessonID uint, title string, orderIndex int) (*model.UploadProgress, *model.LessonVideo, error) {
	if s.Redis == nil {
		return nil, nil, errors.New("chunked uploads require redis")
	}

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, nil, err
	}

	chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%d", chunkNumber))
	src, err := chunkFile.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	dst, err := os.Create(chunkPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, nil, err
	}
	dst.Close()

	redisKey := uploadProgressKeyPrefix + identifier
	var progress *model.UploadProgress

	val, err := s.Redis.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		progress = &model.UploadProgress{
			Identifier:  identifier,
			Filename:    filename,
			TotalChunks: totalChunks,
			Chunks:      make(map[int]bool),
			CreatedAt:   time.Now(),
		}
	} else if err != nil {
		return nil, nil, err
	} else {
		if err := json.Unmarshal([]byte(val), &progress); err != nil {
			return nil, nil, err
		}
	}

	if !progress.Chunks[chunkNumber] {
		progress.UploadedChunks++
		progress.FileSize += chunkFile.Size
		progress.Chunks[chunkNumber] = true
	}

	payload, _ := json.Marshal(progress)
	if err := s.Redis.Set(ctx, redisKey, payload, 24*time.Hour).Err(); err != nil {
		return nil, nil, err
	}

	if progress.UploadedChunks < progress.TotalChunks {
		return progress, nil, nil
	}

	assembled, err := s.assembleChunks(tempDir, filename, totalChunks)
	if err != nil {
		return nil, nil, err
	}
	defer os.RemoveAll(tempDir)

	video, err := s.finalizeVideo(ctx, assembled, filename, util.MimeOctetStream, lessonID, title, orderIndex)
	if err != nil {
		return nil, nil, err
	}

	s.Redis.Del(context.Background(), redisKey)
	return progress, video, nil
}

func (s *ContentService) GetUploadProgress(ctx context.Context, identifier string) (*model.UploadProgress, error) {
	if s.Redis == nil {
		return nil, util.ErrUploadProgressNotFound
	}
	val, err := s.Redis.Get(ctx, uploadProgressKeyPrefix+identifier).Result()
	if err == redis.Nil {
		return nil, util.ErrUploadProgressNotFound
	} else if err != nil {
		return nil, err
	}
	var progress model.UploadProgress
	if err := json.Unmarshal([]byte(val), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *ContentService) assembleChunks(tempDir, filename string, totalChunks int) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	finalPath := filepath.Join(tempDir, "assembled"+ext)
	out, err := os.Create(finalPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	indices := make([]int, 0, totalChunks)
	for i := 0; i < totalChunks; i++ {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		chunk, err := os.Open(filepath.Join(tempDir, fmt.Sprintf("chunk_%d", i)))
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(out, chunk); err != nil {
			chunk.Close()
			return "", err
		}
		chunk.Close()
	}
	return finalPath, nil
}

func (s *ContentService) finalizeVideo(ctx context.Context, localPath, originalName, contentType string, lessonID uint, title string, orderIndex int) (*model.LessonVideo, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := "videos/" + time.Now().Format("20060102150405") + "-" +
		uuid.NewString()[:8] + ext

	url, err := s.StorageService.UploadFile(ctx, storedName, localPath, contentType)
	if err != nil {
		return nil, err
	}

	duration := 0
	if info, err := util.GetVideoInfo(localPath); err == nil {
		duration = int(info.Duration)
	} else {
		logger.Log.Warn("video probe failed, storing zero duration",
			zap.String("file", originalName), zap.Error(err))
	}

	video := &model.LessonVideo{
		LessonID:        lessonID,
		Title:           title,
		URL:             url,
		DurationSeconds: duration,
		OrderIndex:      orderIndex,
	}
	if err := s.CourseRepo.CreateVideo(video); err != nil {
		return nil, err
	}

	logger.Log.Info("lesson video uploaded",
		zap.Uint("videoId", video.ID),
		zap.Uint("lessonId", lessonID),
		zap.Int("durationSeconds", duration))
	return video, nil
}
