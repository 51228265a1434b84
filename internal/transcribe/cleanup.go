package transcribe

import (
	"context"
	"os"
)

// cleanupTempFile removes a temporary file, logs warning if fails
func (o *implOrchestrator) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		o.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		o.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

// cleanupDir removes a temporary directory tree, logs warning if fails
func (o *implOrchestrator) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		o.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		o.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}
