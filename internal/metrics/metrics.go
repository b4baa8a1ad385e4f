package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsConfirmed counts File rows created after a verified upload.
	UploadsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solven_uploads_confirmed_total",
		Help: "Uploads confirmed against the object store.",
	})

	// ConfirmationsRejected counts confirmations refused, by reason.
	ConfirmationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solven_upload_confirmations_rejected_total",
		Help: "Upload confirmations rejected before a row was created.",
	}, []string{"reason"})

	// FilesPruned counts File rows removed by folder reconciliation
	// because the backing object had disappeared from the store.
	FilesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solven_files_pruned_total",
		Help: "Stale file rows pruned during folder reconciliation.",
	})

	// FilesDeleted counts owner-initiated file deletions.
	FilesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solven_files_deleted_total",
		Help: "Files deleted by their owner.",
	})

	// DownloadURLsIssued counts presigned GET URLs handed out.
	DownloadURLsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solven_download_urls_issued_total",
		Help: "Presigned download URLs issued.",
	})
)
