package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"colormybook-backend/internal/ingest"
	"colormybook-backend/internal/models"
	"colormybook-backend/internal/orders"
	"colormybook-backend/internal/sketch"
	"colormybook-backend/internal/supabase"
)

// maxConcurrentTransforms bounds the per-batch transform fan-out. Each
// image's transform is independent; no state is shared between them.
const maxConcurrentTransforms = 4

// ErrNoValidImages means every file in a batch failed validation. The
// per-file reasons travel in BatchResult.Errors.
var ErrNoValidImages = errors.New("no valid images in batch")

// BookService runs the photo-to-book pipeline for one upload batch:
// ingest, sketch transform, storage upload, order creation.
type BookService struct {
	transformer    sketch.Transformer
	orderService   *orders.Service
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
	previewFormat  string
}

func NewBookService(
	transformer sketch.Transformer,
	orderService *orders.Service,
	storageClient *supabase.StorageClient,
	realtimeClient *supabase.RealtimeClient,
	previewFormat string,
) *BookService {
	return &BookService{
		transformer:    transformer,
		orderService:   orderService,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
		previewFormat:  previewFormat,
	}
}

// UploadedFile is one file from the incoming multipart batch.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// BatchResult carries the per-image outcomes plus the created order.
type BatchResult struct {
	Order  *models.Order
	Images []models.UploadedImage
	Errors []string
}

// ProcessBatch ingests a batch of photos, transforms each one, stores both
// renditions, and opens an order in pending_customization. Files that fail
// validation are reported by name and skipped; the batch fails outright
// only when no file survives.
func (s *BookService) ProcessBatch(ctx context.Context, userID string, files []UploadedFile) (*BatchResult, error) {
	result := &BatchResult{}

	// Validation is sequential and cheap; it happens before any network call.
	accepted := make([]*models.UploadedImage, 0, len(files))
	for _, f := range files {
		img, err := ingest.Ingest(f.Filename, f.Data, s.previewFormat)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		accepted = append(accepted, img)
	}

	if len(accepted) == 0 {
		return result, ErrNoValidImages
	}

	bookID := uuid.New()
	s.realtimeClient.PublishBookEvent(bookID, "transform_started",
		supabase.TransformStartedPayload(bookID, len(accepted)))

	s.transformAll(ctx, accepted)

	doneCount := 0
	imageURLs := make([]string, 0, len(accepted))
	for _, img := range accepted {
		originalName := fmt.Sprintf("original_%s_%s", img.ID[:8], img.Filename)
		_, originalURL, err := s.storageClient.UploadBookImage(userID, bookID, originalName, img.MimeType, img.OriginalData)
		if err != nil {
			log.Printf("failed to store original for %s: %v", img.Filename, err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to store %q: %v", img.Filename, err))
		} else {
			img.OriginalURL = originalURL
		}

		if img.State == models.TransformDone && len(img.TransformedData) > 0 {
			sketchName := fmt.Sprintf("sketch_%s_%s", img.ID[:8], img.Filename)
			_, sketchURL, err := s.storageClient.UploadBookImage(userID, bookID, sketchName, "image/jpeg", img.TransformedData)
			if err != nil {
				log.Printf("failed to store sketch for %s: %v", img.Filename, err)
				result.Errors = append(result.Errors, fmt.Sprintf("failed to store sketch for %q: %v", img.Filename, err))
			} else {
				img.TransformedURL = sketchURL
			}
		}

		if img.TransformedURL != "" {
			imageURLs = append(imageURLs, img.TransformedURL)
		}
		if img.State == models.TransformDone {
			doneCount++
		} else if img.State == models.TransformFailed {
			s.realtimeClient.PublishBookEvent(bookID, "transform_failed",
				supabase.TransformFailedPayload(bookID, img.Error))
		}
		result.Images = append(result.Images, *img)
	}

	s.realtimeClient.PublishBookEvent(bookID, "transform_completed",
		supabase.TransformCompletedPayload(bookID, doneCount, len(accepted)-doneCount))

	// The first successful batch creates the persisted order.
	order, err := s.orderService.Create(userID, imageURLs)
	if err != nil {
		return result, fmt.Errorf("failed to create order: %w", err)
	}
	result.Order = order

	return result, nil
}

// transformAll runs the sketch transform for each image with bounded
// parallelism. Images are independent, so no locking is needed: each
// goroutine writes only its own element.
func (s *BookService) transformAll(ctx context.Context, images []*models.UploadedImage) {
	sem := make(chan struct{}, maxConcurrentTransforms)
	var wg sync.WaitGroup

	for _, img := range images {
		wg.Add(1)
		sem <- struct{}{}
		go func(img *models.UploadedImage) {
			defer wg.Done()
			defer func() { <-sem }()

			img.State = models.TransformTransforming
			res, err := s.transformer.Transform(ctx, img.OriginalData)
			if err != nil {
				img.State = models.TransformFailed
				img.Error = err.Error()
				return
			}
			if res.URL != "" {
				img.TransformedURL = res.URL
			}
			img.TransformedData = res.Data
			img.State = models.TransformDone
		}(img)
	}

	wg.Wait()
}

// TransformDataURI transforms a single base64 data-URI image and returns
// the result as a URL or data URI. Backs POST /images.
func (s *BookService) TransformDataURI(ctx context.Context, dataURI string) (string, error) {
	payload, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	res, err := s.transformer.Transform(ctx, payload)
	if err != nil {
		return "", err
	}

	if res.URL != "" {
		return res.URL, nil
	}
	return "data:" + res.MimeType + ";base64," + base64.StdEncoding.EncodeToString(res.Data), nil
}

// HandlePaymentSucceeded is called from the Stripe webhook once the
// processor confirms an intent tied to an order.
func (s *BookService) HandlePaymentSucceeded(orderID uuid.UUID, paymentReference string) {
	order, err := s.orderService.MarkPaid(orderID, paymentReference)
	if err != nil {
		log.Printf("failed to mark order %s paid: %v", orderID, err)
		return
	}
	s.realtimeClient.PublishBookEvent(order.ID, "payment_completed",
		supabase.PaymentCompletedPayload(order.ID, paymentReference))
}

// DeleteBook removes a book session: its stored renditions and the order
// behind it. Paid orders are immutable and cannot be deleted.
func (s *BookService) DeleteBook(bookID uuid.UUID) error {
	order, err := s.orderService.Get(bookID)
	if err != nil {
		return err
	}

	if order.Status == models.OrderPaid {
		return fmt.Errorf("%w: paid orders cannot be deleted", models.ErrInvalidState)
	}

	// Storage cleanup is best-effort; orphaned files must not block the
	// order deletion.
	if err := s.storageClient.DeleteBookFiles(order.UserID, order.ID); err != nil {
		log.Printf("failed to delete stored files for book %s: %v", bookID, err)
	}

	return s.orderService.Delete(order.ID, order.UserID)
}

// HandlePaymentFailed is called when the processor reports a failed intent.
func (s *BookService) HandlePaymentFailed(orderID uuid.UUID, reason string) {
	if err := s.orderService.MarkFailed(orderID, reason); err != nil {
		log.Printf("failed to mark order %s failed: %v", orderID, err)
	}
}
