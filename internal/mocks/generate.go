package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/docstore --output domain/docstore --outpkg docstoremock --filename store_mock.go
