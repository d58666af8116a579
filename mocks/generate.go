package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-features/internal/datasource DataSource
//go:generate mockgen -destination=./mock_feature_writer.go -package=mocks github.com/rxtech-lab/argo-features/internal/writer FeatureWriter
