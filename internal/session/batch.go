package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/cargaona/dmx/internal/shared"
)

// pause between sequential downloads so the engine's upstream is not
// hammered
var batchPause = 1 * time.Second

// downloadSelection validates the indices against the given result list
// and downloads each item in ascending order. Every item's outcome is
// independent; a failure never stops the batch.
func (s *Session) downloadSelection(ctx context.Context, indices []int, items []shared.SearchResult) {
	if ready, reason := s.downloader.Ready(); !ready {
		shared.ColorError.Fprintln(s.out, reason)
		s.reporter.Report(shared.ErrKindConfig, "download", &shared.ConfigError{Message: reason})
		return
	}

	var invalid []string
	for _, idx := range indices {
		if idx < 1 || idx > len(items) {
			invalid = append(invalid, fmt.Sprintf("%d", idx))
		}
	}
	if len(invalid) > 0 {
		shared.ColorError.Fprintf(s.out, "Invalid selection: %s (valid range is 1-%d)\n", strings.Join(invalid, ", "), len(items))
		s.reporter.Report(shared.ErrKindValidation, "selection", &shared.ValidationError{Field: "selection", Message: "index out of range"})
		return
	}

	if len(indices) > s.cfg.BatchConfirmThreshold && !s.confirmBatch(len(indices)) {
		shared.ColorWarning.Fprintln(s.out, "Batch cancelled")
		return
	}

	var bar *pb.ProgressBar
	if len(indices) > 1 {
		bar = pb.New(len(indices))
		bar.SetWriter(s.out)
		bar.Start()
	}

	var successes, failures []string
	for n, idx := range indices {
		item := items[idx-1]

		select {
		case <-s.interrupted:
			if bar != nil {
				bar.Finish()
			}
			shared.ColorWarning.Fprintf(s.out, "Interrupted; stopping batch after %d of %d items\n", n, len(indices))
			s.printBatchSummary(successes, failures)
			return
		case <-ctx.Done():
			if bar != nil {
				bar.Finish()
			}
			return
		default:
		}

		shared.ColorInfo.Fprintf(s.out, "Downloading %s - %s...\n", item.Artist, item.Label())
		if err := s.downloader.Download(ctx, item.URL); err != nil {
			failures = append(failures, fmt.Sprintf("%d. %s", idx, item.Label()))
			shared.ColorError.Fprintf(s.out, "Failed: %v\n", err)
			s.reporter.Report(shared.ErrKindDownload, "download", err)
		} else {
			successes = append(successes, fmt.Sprintf("%d. %s", idx, item.Label()))
			shared.ColorSuccess.Fprintf(s.out, "Done: %s\n", item.Label())
		}
		if bar != nil {
			bar.Increment()
		}

		if n < len(indices)-1 {
			select {
			case <-ctx.Done():
				if bar != nil {
					bar.Finish()
				}
				return
			case <-time.After(batchPause):
			}
		}
	}
	if bar != nil {
		bar.Finish()
	}
	if len(indices) > 1 {
		s.printBatchSummary(successes, failures)
	}
}

// confirmBatch asks before large batches. Only an explicit yes proceeds.
func (s *Session) confirmBatch(count int) bool {
	shared.ColorPrompt.Fprintf(s.out, "Download %d items? [y/N]: ", count)
	answer, ok := s.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (s *Session) printBatchSummary(successes, failures []string) {
	fmt.Fprintln(s.out)
	shared.ColorInfo.Fprintf(s.out, "Batch complete: %d succeeded, %d failed\n", len(successes), len(failures))
	for _, item := range successes {
		shared.ColorSuccess.Fprintf(s.out, "  downloaded: %s\n", item)
	}
	for _, item := range failures {
		shared.ColorError.Fprintf(s.out, "  failed: %s\n", item)
	}
}
