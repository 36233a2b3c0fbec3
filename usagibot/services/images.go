package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/usagipet/usagibot/usagibot/database/models"
	"github.com/usagipet/usagibot/usagibot/game"
)

// ImageService owns the Spaces bucket layout for the rabbit's look images
// and the shop icons, and builds the public CDN URLs used in embeds and
// rendered cards.
type ImageService struct {
	client    *s3.Client
	bucket    string
	region    string
	imageRoot string
}

func NewImageService(spacesKey, spacesSecret, region, bucket, imageRoot string) *ImageService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &ImageService{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		region:    region,
		imageRoot: strings.Trim(imageRoot, "/"),
	}
}

func (s *ImageService) publicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

// LookImageURL returns the rabbit picture matching a cosmetic look.
func (s *ImageService) LookImageURL(look models.Look) string {
	name := string(look)
	if name == "" {
		name = string(models.LookNormal)
	}
	return s.publicURL(fmt.Sprintf("%s/looks/%s.png", s.imageRoot, name))
}

// ShopImageURL returns the icon shown for a catalog item.
func (s *ImageService) ShopImageURL(key game.ItemKey) string {
	return s.publicURL(fmt.Sprintf("%s/shop/%s.png", s.imageRoot, key))
}

// Exists checks whether an object is actually present in the bucket.
// Useful for catching missing assets at startup rather than in embeds.
func (s *ImageService) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s: %w", key, err)
	}
	return true, nil
}

// VerifyAssets heads every look and shop image and reports the missing
// keys. Called once at startup.
func (s *ImageService) VerifyAssets(ctx context.Context) []string {
	var missing []string

	keys := []string{
		fmt.Sprintf("%s/looks/%s.png", s.imageRoot, models.LookNormal),
		fmt.Sprintf("%s/looks/%s.png", s.imageRoot, models.LookSunglasses),
		fmt.Sprintf("%s/looks/%s.png", s.imageRoot, models.LookPink),
	}
	for _, item := range game.CatalogOrder {
		keys = append(keys, fmt.Sprintf("%s/shop/%s.png", s.imageRoot, item))
	}

	for _, key := range keys {
		ok, err := s.Exists(ctx, key)
		if err != nil || !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
