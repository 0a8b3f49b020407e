package vision

import (
	"fmt"
	"strings"
)

const scanSystemPrompt = "你是压力容器制造领域的工程图纸分析助手。" +
	"你的任务是浏览整套图纸，列出其中出现的每一台独立设备及其所在页码范围。" +
	"同一台设备出现在多页时只列一次。输出严格遵循给定的 JSON 结构。"

const detailSystemPrompt = "你是压力容器制造领域的工程图纸分析助手。" +
	"你的任务是根据图纸为指定设备整理材料明细表（BOM）：" +
	"逐项列出零部件名称、材质牌号、规格、单重(kg)与数量，" +
	"并提取设备的总体规格、主体材质和图纸标注的设计重量。" +
	"无法确定的字段留空，不要编造数值。输出严格遵循给定的 JSON 结构。"

const priceSystemPrompt = "你是金属材料市场行情助手。" +
	"针对给出的每种材质牌号，估算当前市场单价（人民币元每千克）。" +
	"没有把握的材质可以省略。输出严格遵循给定的 JSON 结构。"

func scanInstruction(doc Document) string {
	if doc.PageCount > 1 {
		return fmt.Sprintf("这套图纸共 %d 页。请列出全部设备及各自的页码范围（如 \"1-3\"）。", doc.PageCount)
	}
	return "请列出这张图纸中的全部设备。"
}

func detailInstruction(targetTag, pageContext string) string {
	var b strings.Builder
	b.WriteString("请提取设备")
	if targetTag != "" {
		fmt.Fprintf(&b, "（位号 %s）", targetTag)
	}
	b.WriteString("的材料明细表。")
	if pageContext != "" {
		fmt.Fprintf(&b, "该设备位于第 %s 页。", pageContext)
	}
	return b.String()
}

func priceInstruction(materialNames []string) string {
	return "材质清单：\n" + strings.Join(materialNames, "\n")
}

// ScanSchema is the response schema for the structure scan call.
func ScanSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"equipments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tag":       map[string]any{"type": "string", "description": "设备位号，无法识别时为空"},
						"name":      map[string]any{"type": "string", "description": "设备名称"},
						"pageRange": map[string]any{"type": "string", "description": "页码范围，如 1-3"},
					},
					"required":             []string{"tag", "name", "pageRange"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"equipments"},
		"additionalProperties": false,
	}
}

// DetailSchema is the response schema for the detail extraction call.
func DetailSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"specification": map[string]any{"type": "string", "description": "设备总体规格"},
			"mainMaterial":  map[string]any{"type": "string", "description": "主体材质"},
			"designWeight":  map[string]any{"type": "number", "description": "图纸标注设计重量(kg)"},
			"materials": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":          map[string]any{"type": "string"},
						"material":      map[string]any{"type": "string"},
						"specification": map[string]any{"type": "string"},
						"weight":        map[string]any{"type": "number", "description": "单重(kg)"},
						"quantity":      map[string]any{"type": "number"},
						"category": map[string]any{
							"type": "string",
							"enum": []string{"plate", "forging", "pipe", "consumable", "other"},
						},
					},
					"required":             []string{"name", "material", "specification", "weight", "quantity", "category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"specification", "mainMaterial", "designWeight", "materials"},
		"additionalProperties": false,
	}
}

// PriceSchema is the response schema for the pricing lookup call.
func PriceSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prices": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"material":   map[string]any{"type": "string"},
						"pricePerKg": map[string]any{"type": "number"},
					},
					"required":             []string{"material", "pricePerKg"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"prices"},
		"additionalProperties": false,
	}
}
