package repository

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pastvault/asset-service/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The repository tests run against a real Postgres because the visibility
// union, the jsonb tag filter and the stats aggregation live in SQL. Set
// TEST_POSTGRES_DSN to a disposable database to enable them.
func testRepo(t *testing.T) *AssetRepository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Asset{}))
	require.NoError(t, db.Exec("TRUNCATE TABLE assets").Error)

	return NewAssetRepository(db)
}

func seedAsset(t *testing.T, repo *AssetRepository, owner uuid.UUID, title string, public bool, size int64, tags ...string) *entity.Asset {
	t.Helper()

	id := uuid.New()
	asset := &entity.Asset{
		ID:        id,
		PublicID:  "assets/raw/" + id.String() + ".pdf",
		SecureURL: "https://cdn.test/assets/raw/" + id.String() + ".pdf",
		Title:     title,
		Tags:      datatypes.NewJSONSlice(append([]string{}, tags...)),
		Format:    "pdf",
		Size:      size,
		OwnerID:   owner,
		IsPublic:  public,
	}
	require.NoError(t, repo.Create(asset))
	return asset
}

func resultIDs(assets []entity.Asset) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestSearch_VisibilityUnion(t *testing.T) {
	repo := testRepo(t)

	ownerA := uuid.New()
	ownerB := uuid.New()

	aPublic := seedAsset(t, repo, ownerA, "Calculus 2021", true, 100)
	aPrivate := seedAsset(t, repo, ownerA, "Draft Notes", false, 100)
	bPrivate := seedAsset(t, repo, ownerB, "My Scans", false, 100)

	// B sees everyone's public records plus their own private ones.
	assets, total, err := repo.Search(SearchParams{ViewerID: ownerB, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	ids := resultIDs(assets)
	assert.Contains(t, ids, aPublic.ID)
	assert.Contains(t, ids, bPrivate.ID)
	assert.NotContains(t, ids, aPrivate.ID)

	// MineOnly bypasses visibility: A gets both own records, nothing of B's.
	assets, total, err = repo.Search(SearchParams{ViewerID: ownerA, MineOnly: true, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	ids = resultIDs(assets)
	assert.Contains(t, ids, aPublic.ID)
	assert.Contains(t, ids, aPrivate.ID)
	assert.NotContains(t, ids, bPrivate.ID)
}

func TestSearch_TagAnyOfMatch(t *testing.T) {
	repo := testRepo(t)
	owner := uuid.New()

	algebra := seedAsset(t, repo, owner, "Algebra Paper", true, 100, "algebra", "2021")
	calculus := seedAsset(t, repo, owner, "Calculus Paper", true, 100, "calculus")
	chemistry := seedAsset(t, repo, owner, "Chemistry Paper", true, 100, "chemistry")
	untagged := seedAsset(t, repo, owner, "Untagged Paper", true, 100)

	assets, total, err := repo.Search(SearchParams{
		ViewerID: owner,
		Tags:     []string{"algebra", "calculus"},
		Page:     1,
		Limit:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	ids := resultIDs(assets)
	assert.Contains(t, ids, algebra.ID)
	assert.Contains(t, ids, calculus.ID)
	assert.NotContains(t, ids, chemistry.ID)
	assert.NotContains(t, ids, untagged.ID)
}

func TestSearch_FreeTextAndPagination(t *testing.T) {
	repo := testRepo(t)
	owner := uuid.New()

	match := seedAsset(t, repo, owner, "CSC 101 Final Exam", true, 100)
	seedAsset(t, repo, owner, "Biology Midterm", true, 100)

	assets, total, err := repo.Search(SearchParams{ViewerID: owner, Search: "csc 101", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, assets, 1)
	assert.Equal(t, match.ID, assets[0].ID)

	// The total stays unpaginated while the page is clamped by Limit.
	assets, total, err = repo.Search(SearchParams{ViewerID: owner, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, assets, 1)
}

func TestStatsByOwner_RecomputesAfterCreateAndDelete(t *testing.T) {
	repo := testRepo(t)
	owner := uuid.New()
	other := uuid.New()

	seedAsset(t, repo, owner, "Sheet A", true, 1024*1024, "math", "2021")
	extra := seedAsset(t, repo, owner, "Sheet B", true, 512*1024, "math")
	seedAsset(t, repo, owner, "Sheet C", false, 256*1024, "chem")
	seedAsset(t, repo, other, "Not Mine", true, 1024*1024*10, "math")

	stats, err := repo.StatsByOwner(owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalImages)
	assert.Equal(t, int64(2), stats.PublicImages)
	assert.Equal(t, int64(1), stats.PrivateImages)
	assert.Equal(t, int64(1792*1024), stats.TotalStorage)
	assert.Equal(t, "1.75", stats.TotalStorageMB)

	require.NotEmpty(t, stats.TopTags)
	assert.Equal(t, TagCount{Tag: "math", Count: 2}, stats.TopTags[0])
	assert.Len(t, stats.TopTags, 3)

	require.NoError(t, repo.Delete(extra.ID))

	stats, err = repo.StatsByOwner(owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalImages)
	assert.Equal(t, int64(1280*1024), stats.TotalStorage)
	for _, tc := range stats.TopTags {
		assert.Equal(t, int64(1), tc.Count)
	}
}

func TestIncrementCounters(t *testing.T) {
	repo := testRepo(t)
	asset := seedAsset(t, repo, uuid.New(), "Counted", true, 100)

	require.NoError(t, repo.IncrementViews(asset.ID))
	require.NoError(t, repo.IncrementViews(asset.ID))
	require.NoError(t, repo.IncrementDownloads(asset.ID))

	got, err := repo.FindByID(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.Equal(t, int64(1), got.Downloads)
}
