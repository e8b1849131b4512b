// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/inventory_repository.go -destination=inventory_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_resolver.go -destination=inventory_resolver_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/document_store.go -destination=document_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/code_detector.go -destination=code_detector_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/credentials.go -destination=credentials_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/task_enqueuer.go -destination=task_enqueuer_mock.go -package=mocks
//go:generate mockgen -source=../../internal/adapters/storage/s3.go -destination=s3_mock.go -package=mocks
//go:generate mockgen -source=../../internal/pkg/config/secrets.go -destination=secrets_manager_mock.go -package=mocks
