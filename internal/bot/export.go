package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// cmdExport выгружает отчёт по заказчикам и выездам в Excel.
func (b *Bot) cmdExport(chatID int64) {
	customers := b.ledger.List()
	if len(customers) == 0 {
		b.reply(chatID, "Список заказчиков пуст.")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"customer_id",
		"customer_name",
		"user_ids",
		"visits_count",
		"discount",
		"projects_sum",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		b.reply(chatID, "Ошибка формирования файла (заголовок)")
		return
	}

	row := 2
	for _, c := range customers {
		discount := "нет"
		if c.Discount {
			discount = "да"
		}
		excelRow := []interface{}{
			c.ID,
			c.Name,
			strings.Join(c.ActorIDs, ", "),
			len(c.Visits),
			discount,
			c.ProjectsSum,
		}
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			b.reply(chatID, "Ошибка формирования файла")
			return
		}
		row++
	}

	// второй лист — выезды
	visitsSheet := "Выезды"
	if _, err := f.NewSheet(visitsSheet); err == nil {
		visitHeader := []interface{}{
			"customer_id",
			"customer_name",
			"date",
			"kind",
			"duration",
			"tariff_type",
			"price",
		}
		_ = f.SetSheetRow(visitsSheet, "A1", &visitHeader)
		vrow := 2
		for _, c := range customers {
			for _, v := range c.Visits {
				excelRow := []interface{}{
					c.ID,
					c.Name,
					fmtDate(v.Date),
					kindLabel(v.Kind),
					durationLabel(v.Duration),
					tariffLabel(v.TariffType),
					v.Price,
				}
				_ = f.SetSheetRow(visitsSheet, fmt.Sprintf("A%d", vrow), &excelRow)
				vrow++
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.reply(chatID, "Ошибка формирования файла")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("customers_%s.xlsx", b.now().Format("2006-01-02")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = "📋 Отчёт по заказчикам и выездам"
	b.send(doc)
}
