package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
	"vesselcost/vision"
)

// maxDrawingSize bounds one uploaded drawing file (32 MB).
const maxDrawingSize = 32 << 20

// HandleDrawingImport accepts a multipart batch of drawing files (PDF or
// image), runs the sequential two-phase extraction and merges the results
// into the project ledger. Files the extraction service cannot process are
// reported per file; the batch itself always completes.
func HandleDrawingImport(app *pocketbase.PocketBase, client vision.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		if err := e.Request.ParseMultipartForm(maxDrawingSize); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的上传内容")
		}

		files := e.Request.MultipartForm.File["drawings"]
		if len(files) == 0 {
			return ErrorJSON(e, http.StatusBadRequest, "请至少上传一个图纸文件")
		}

		var docs []vision.Document
		var rejected []string
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				log.Printf("drawing_import: open %q: %v", fh.Filename, err)
				rejected = append(rejected, fh.Filename)
				continue
			}
			data, err := io.ReadAll(io.LimitReader(f, maxDrawingSize))
			f.Close()
			if err != nil {
				log.Printf("drawing_import: read %q: %v", fh.Filename, err)
				rejected = append(rejected, fh.Filename)
				continue
			}

			doc, err := vision.NewDocument(uuid.NewString(), fh.Filename, data)
			if err != nil {
				log.Printf("drawing_import: %v", err)
				rejected = append(rejected, fh.Filename)
				continue
			}
			docs = append(docs, doc)
		}

		if len(docs) == 0 {
			return ErrorJSON(e, http.StatusBadRequest, "没有可识别的图纸文件（仅支持 PDF 与图片）")
		}

		result, err := services.ImportDrawings(e.Request.Context(), app, client, projectID, docs)
		if err != nil {
			log.Printf("drawing_import: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导入失败，请导出备份后重试")
		}

		for _, name := range rejected {
			result.FileErrors = append(result.FileErrors, fmt.Sprintf("%s: 文件无法读取", name))
		}
		return e.JSON(http.StatusOK, result)
	}
}
