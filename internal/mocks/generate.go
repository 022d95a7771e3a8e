package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LeagueBackend --dir ../usecase --output usecase --outpkg usecasemock --filename league_backend_mock.go
