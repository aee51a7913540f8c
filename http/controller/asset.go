package controller

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pastvault/asset-service/entity"
	"github.com/pastvault/asset-service/http/controller/dto"
	"github.com/pastvault/asset-service/infra"
	"github.com/pastvault/asset-service/infra/produce"
	"github.com/pastvault/asset-service/repository"
	"github.com/pastvault/asset-service/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	defaultPageSize      = 20
	maxPageSize          = 100
)

func (ctrl *Controller) UploadAsset(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Upload without file from user %s", userID)
		utils.JSON400(c, "Please upload a file")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if titleTooLong(title) {
		utils.JSON400(c, "Title cannot exceed 200 characters")
		return
	}
	if descriptionTooLong(description) {
		utils.JSON400(c, "Description cannot exceed 1000 characters")
		return
	}

	isPublic := true
	if val := c.PostForm("isPublic"); val != "" {
		isPublic = val != "false" && val != "0"
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Fail the size check before buffering the body.
	if fileHeader.Size > ctrl.Config.EnvConfig.Upload.MaxFileSize {
		utils.JSON400(c, "File exceeds the maximum size of "+entity.FormatBytes(ctrl.Config.EnvConfig.Upload.MaxFileSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to open multipart file")
		utils.JSON500(c, "Failed to read the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to buffer multipart file")
		utils.JSON500(c, "Failed to read the uploaded file")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Asset] Uploading '%s' (%d bytes, %s) for user %s",
		fileHeader.Filename, len(data), contentType, userID)

	asset, uploadErr := runUploadPipeline(ctx,
		ctrl.Infra.Minio,
		ctrl.Repository.AssetRepo,
		uploadLimits{
			MaxFileSize: ctrl.Config.EnvConfig.Upload.MaxFileSize,
			Folder:      ctrl.Config.EnvConfig.Upload.Folder,
		},
		uploadInput{
			OwnerID:     userID,
			Title:       title,
			Description: description,
			Tags:        utils.NormalizeTags(c.PostFormArray("tags")),
			IsPublic:    isPublic,
			ContentType: contentType,
			Size:        fileHeader.Size,
			Data:        data,
		},
	)
	if uploadErr != nil {
		ctrl.reportUploadFailure(c, uploadErr)
		return
	}

	if err := ctrl.Infra.Produce.AssetEvents.PublishUploaded(ctx, produce.AssetUploadedMessage{
		AssetID:     asset.ID.String(),
		OwnerID:     asset.OwnerID.String(),
		PublicID:    asset.PublicID,
		ContentType: contentType,
		SizeBytes:   asset.Size,
	}); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Failed to publish uploaded event for %s: %v", asset.ID, err)
	}

	ctrl.invalidateStats(c, userID)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Asset] Uploaded asset %s as %s", asset.ID, asset.PublicID)
	utils.JSON201(c, "File uploaded successfully", dto.NewAssetResponse(asset))
}

func (ctrl *Controller) reportUploadFailure(c *gin.Context, uploadErr *UploadError) {
	ctx := c.Request.Context()

	switch uploadErr.Kind {
	case FailureRemoteWrite:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, uploadErr.Err, "[Asset] Remote write failed")
	case FailurePersist:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, uploadErr.Err, "[Asset] Persist failed after remote write of %s", uploadErr.PublicID)
		if uploadErr.CompensationErr != nil {
			// The object is orphaned; hand it to the cleanup consumer.
			ctrl.Infra.Logger.ErrorWithContextf(ctx, uploadErr.CompensationErr,
				"[Asset] Compensating delete failed for %s", uploadErr.PublicID)
			if err := ctrl.Infra.Produce.AssetEvents.PublishCleanup(ctx, produce.AssetCleanupMessage{
				PublicID: uploadErr.PublicID,
				Reason:   "compensating delete failed",
			}); err != nil {
				ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Failed to publish cleanup for %s: %v", uploadErr.PublicID, err)
			}
		}
	default:
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Rejected upload: %s", uploadErr.Message)
	}

	c.JSON(uploadErr.Status(), gin.H{"success": false, "message": uploadErr.Message})
}

func (ctrl *Controller) ListAssets(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	params := repository.SearchParams{
		ViewerID: userID,
		MineOnly: c.Query("myImages") == "true",
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		Limit:    limit,
	}
	if tags := c.Query("tags"); tags != "" {
		params.Tags = utils.NormalizeTags([]string{tags})
	}

	assets, total, err := ctrl.Repository.AssetRepo.Search(params)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Search failed")
		utils.JSON500(c, "Error fetching files")
		return
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	utils.JSON200List(c, dto.NewAssetResponseList(assets), len(assets), total, page, pages)
}

func (ctrl *Controller) GetAssetByID(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	asset, ok := ctrl.findAsset(c)
	if !ok {
		return
	}

	if !asset.VisibleTo(userID) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] User %s denied access to private asset %s", userID, asset.ID)
		utils.JSON403(c, "You do not have permission to view this file")
		return
	}

	utils.JSON200(c, dto.NewAssetResponse(asset))
}

func (ctrl *Controller) UpdateAsset(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	asset, ok := ctrl.findAsset(c)
	if !ok {
		return
	}

	if asset.OwnerID != userID {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] User %s attempted to update asset %s owned by %s", userID, asset.ID, asset.OwnerID)
		utils.JSON403(c, "You do not have permission to update this file")
		return
	}

	var req dto.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			utils.JSON400(c, "Title cannot be empty")
			return
		}
		if titleTooLong(title) {
			utils.JSON400(c, "Title cannot exceed 200 characters")
			return
		}
		asset.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if descriptionTooLong(description) {
			utils.JSON400(c, "Description cannot exceed 1000 characters")
			return
		}
		asset.Description = description
	}
	if req.Tags != nil {
		asset.Tags = datatypes.NewJSONSlice(utils.NormalizeTags(*req.Tags))
	}
	if req.IsPublic != nil {
		asset.IsPublic = *req.IsPublic
	}

	if err := ctrl.Repository.AssetRepo.Update(asset); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to update asset %s", asset.ID)
		utils.JSON500(c, "Error updating file")
		return
	}

	ctrl.invalidateStats(c, userID)

	utils.JSON200WithMessage(c, "File updated successfully", dto.NewAssetResponse(asset))
}

func (ctrl *Controller) DeleteAsset(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	asset, ok := ctrl.findAsset(c)
	if !ok {
		return
	}

	if asset.OwnerID != userID {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] User %s attempted to delete asset %s owned by %s", userID, asset.ID, asset.OwnerID)
		utils.JSON403(c, "You do not have permission to delete this file")
		return
	}

	// Remote deletion is advisory: a storage failure never blocks removal of
	// the record, it is logged and queued for a later retry instead.
	remoteDeleted := true
	if err := ctrl.Infra.Minio.RemoveAsset(ctx, asset.PublicID); err != nil {
		remoteDeleted = false
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Remote delete failed for %s", asset.PublicID)
		if pubErr := ctrl.Infra.Produce.AssetEvents.PublishCleanup(ctx, produce.AssetCleanupMessage{
			PublicID: asset.PublicID,
			Reason:   "delete-path remote removal failed",
		}); pubErr != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Failed to publish cleanup for %s: %v", asset.PublicID, pubErr)
		}
	}

	if err := ctrl.Repository.AssetRepo.Delete(asset.ID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to delete asset %s", asset.ID)
		utils.JSON500(c, "Error deleting file")
		return
	}

	if err := ctrl.Infra.Produce.AssetEvents.PublishDeleted(ctx, produce.AssetDeletedMessage{
		AssetID:       asset.ID.String(),
		OwnerID:       asset.OwnerID.String(),
		PublicID:      asset.PublicID,
		RemoteDeleted: remoteDeleted,
	}); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Failed to publish deleted event for %s: %v", asset.ID, err)
	}

	ctrl.invalidateStats(c, userID)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Asset] Deleted asset %s", asset.ID)
	utils.JSON200WithMessage(c, "File deleted successfully", gin.H{"id": asset.ID})
}

func (ctrl *Controller) TrackView(c *gin.Context) {
	ctrl.trackCounter(c, ctrl.Repository.AssetRepo.IncrementViews)
}

func (ctrl *Controller) TrackDownload(c *gin.Context) {
	ctrl.trackCounter(c, ctrl.Repository.AssetRepo.IncrementDownloads)
}

func (ctrl *Controller) trackCounter(c *gin.Context, increment func(uuid.UUID) error) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	asset, ok := ctrl.findAsset(c)
	if !ok {
		return
	}

	if !asset.VisibleTo(userID) {
		utils.JSON403(c, "You do not have permission to view this file")
		return
	}

	if err := increment(asset.ID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to increment counter for %s", asset.ID)
		utils.JSON500(c, "Error updating counters")
		return
	}

	utils.JSON200(c, gin.H{"id": asset.ID})
}

func (ctrl *Controller) GetMyAssetStats(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	cacheKey := statsCacheKey(userID)
	var cached repository.OwnerStats
	if err := ctrl.Infra.Redis.Get(ctx, cacheKey, &cached); err == nil {
		utils.JSON200(c, cached)
		return
	} else if !errors.Is(err, infra.ErrCacheMiss) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Stats cache read failed for %s: %v", userID, err)
	}

	stats, err := ctrl.Repository.AssetRepo.StatsByOwner(userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to compute stats for %s", userID)
		utils.JSON500(c, "Error fetching file statistics")
		return
	}

	ttl := time.Duration(ctrl.Config.EnvConfig.Stats.CacheTTL) * time.Second
	if err := ctrl.Infra.Redis.Set(ctx, cacheKey, stats, ttl); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Stats cache write failed for %s: %v", userID, err)
	}

	utils.JSON200(c, stats)
}

// findAsset parses the :id parameter and loads the record, writing the 400/404
// response itself when either step fails.
func (ctrl *Controller) findAsset(c *gin.Context) (*entity.Asset, bool) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid file id")
		return nil, false
	}

	asset, err := ctrl.Repository.AssetRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "File not found")
			return nil, false
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Asset] Failed to load asset %s", id)
		utils.JSON500(c, "Error fetching file")
		return nil, false
	}

	return asset, true
}

func (ctrl *Controller) invalidateStats(c *gin.Context, ownerID uuid.UUID) {
	ctx := c.Request.Context()
	if err := ctrl.Infra.Redis.Delete(ctx, statsCacheKey(ownerID)); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Asset] Stats cache invalidation failed for %s: %v", ownerID, err)
	}
}

func statsCacheKey(ownerID uuid.UUID) string {
	return "stats:owner:" + ownerID.String()
}

// Limits count characters, not bytes, so multibyte titles are not penalized.
func titleTooLong(title string) bool {
	return utf8.RuneCountInString(title) > maxTitleLength
}

func descriptionTooLong(description string) bool {
	return utf8.RuneCountInString(description) > maxDescriptionLength
}
