package minutes

// Category is one of the minutes sections a line can be filed under.
type Category string

const (
	Keputusan    Category = "keputusan"
	TindakLanjut Category = "tindak_lanjut"
	Isu          Category = "isu"
	Arahan       Category = "arahan"
	Catatan      Category = "catatan"
)

// Categories lists the canonical categories in tie-break order.
var Categories = []Category{Keputusan, TindakLanjut, Isu, Arahan, Catatan}

// baseKeysets holds the built-in patterns per category. Every entry counts
// at most once per line, however many of its alternatives match.
var baseKeysets = map[Category][]string{
	Keputusan: {
		`\bkeputusan\b`, `\bdiputuskan\b`, `\bmemutuskan\b`, `\bmenetapkan\b`, `\bditetapkan\b`,
		`\bdisepakati\b|\bkesepakatan\b`, `\bmenyetujui\b|\bdisetujui\b`, `\bmenolak\b`, `\bdengan catatan\b`,

		`\bhasil rapat\b`, `\bputusan rapat\b`, `\bkonklusi\b`, `\bkonklusinya\b`, `\bketetapan\b`,
		`\bpengesahan\b`, `\bdiputus\b|\bmenyepakati\b|\bmufakat\b|\bmusyawarah\b`,

		`\bPeraturan\b|\bPerda\b|\bPerwal\b|\bPerbup\b|\bSK\b|\bSurat Keputusan\b|\bKeppres\b|\bPerpres\b`,
		`\bditerbitkan\b|\bditetapkan melalui\b|\bdikuatkan\b|\bdisahkan\b|\bsah\b`,

		`\bdipersetujui\b`, `\bdibolehkan\b`, `\bdilarang\b`, `\bditolak\b`, `\bditunda\b`, `\bdipending\b`,
		`\bdisetujui bersama\b`, `\bdengan syarat\b`, `\bdengan ketentuan\b`, `\bbersyarat\b`,

		`\bmenyetujui anggaran\b`, `\bpenetapan pagu\b`, `\bpenetapan KUA\b`, `\bpengesahan APBD\b`,
		`\bpengesahan KUA\b`, `\bpengesahan PPAS\b`, `\bpengesahan RAPBD\b`, `\bpengesahan RKPD\b`,

		`\bmutasi\b|\bpromosi\b|\bpemberhentian\b|\bpenunjukan\b|\bdiangkat\b|\bpengangkatan\b|\bpergantian\b`,
		`\bkeputusan pimpinan\b|\bkeputusan ketua\b|\bkeputusan dewan\b|\bhasil pleno\b`,

		`\bdinyatakan\b|\bditegaskan\b|\bdipastikan\b|\bdipilih\b|\bmemilih\b`,
		`\bdisetujui rapat\b|\bhasil sidang\b|\bketok palu\b`,
	},
	TindakLanjut: {
		`\btindak lanjut\b`, `\bditindaklanjuti\b`, `\bmenindaklanjuti\b`, `\baksi\b|\baction\b`,
		`\bfollow[- ]?up\b`, `\bkelanjutan\b`, `\bprogress\b|\bprogres\b`,
		`\bdeadline\b|\bdue\b|\bjatuh tempo\b|\bbatas waktu\b|\bpaling lambat\b|\bselambat\b|\btarget\b|\bSLA\b|\bKPI\b`,

		`\bPIC\b|\bowner\b|\bpenanggung jawab\b|\bpenanggungjawab\b`,
		`\bditugaskan\b|\bmenugaskan\b|\bmenunjuk\b|\bdidelegasikan\b|\bdelegasi\b`,
		`\btanggung jawab\b|\bkoordinator\b|\bpenanggung jawab kegiatan\b`,

		`\bkoordinasi\b|\bberkoordinasi\b|\bkoor(d)?\b`,
		`\bkomunikasi\b|\bmenghubungi\b|\bkontak\b|\bkonfirmasi\b|\bmengonfirmasi\b`,
		`\breminder\b|\bdiingatkan\b|\bperingatan\b|\bnotifikasi\b|\bfollow[- ]?up via\b`,

		`\bmenyusun surat\b|\bmembuat surat\b|\bkonsep surat\b|\bsurat tugas\b|\bsurat undangan\b|\bnota dinas\b|\bNODIN\b`,
		`\bdisposisi\b|\bparaf\b|\bpara(f)? berjenjang\b|\btembusan\b`,
		`\bmengirim surat\b|\bmengirimkan surat\b|\bmenyampaikan surat\b|\bunggah surat\b`,
		`\bBAST\b|\bberita acara\b|\bSPT\b|\bSK\b|\bMoU\b|\bPKS\b`,

		`\bmenjadwalkan rapat\b|\bdijadwalkan rapat\b|\bpenjadwalan\b|\batur jadwal\b`,
		`\bRapat lanjutan\b|\bFGD\b|\bbriefing\b|\bkoordinasi lintas OPD\b`,
		`\bsosialisasi\b|\bdiseminasi\b|\bpembinaan\b|\bpenguatan\b|\bpendampingan\b`,

		`\bmenyusun\b|\bmenyempurnakan\b|\bmelengkapi\b|\bmemperbarui\b|\bmemutakhirkan\b`,
		`\bmerevisi\b|\brevisi\b|\bperbaikan\b|\bperubahan\b|\bupdate dokumen\b`,
		`\bfinalisasi\b|\bfinal\b|\bpengesahan internal\b`,
		`\bmengarsipkan\b|\bdiarsipkan\b|\bunggah\b|\bmengunggah\b|\bupload\b|\bdiunggah\b`,
		`\bverifikasi\b|\bdipverifikasi\b|\bvalidasi\b|\bdipvalidasi\b|\bcek kelengkapan\b|\bcek dokumen\b`,

		`\bmenyusun laporan\b|\bmenyampaikan laporan\b|\blaporan kemajuan\b|\blaporan realisasi\b|\bLPJ\b|\bSPJ\b`,
		`\bmonitoring\b|\bmonitor\b|\bMonev\b|\bevaluasi\b|\breview\b|\bpenilaian\b`,

		`\bRKPD\b|\bKUA\b|\bPPAS\b|\bRKA\b|\bDPA\b|\bPOK\b`,
		`\binput (ke )?SIPD\b|\bSIPD\b|\bSIRUP\b|\bSiRUP\b`,
		`\bpenyelarasan\b|\bsinkronisasi\b|\bpenyesuaian pagu\b|\bpenajaman program\b`,

		`\bpengadaan\b|\bPBJ\b|\bULP\b|\bLPSE\b|\be-?catalog\b|\be-katalog\b`,
		`\bSPK\b|\bkontrak\b|\bBAST\b|\bBAHN\b|\bvendor\b|\bpenyedia\b|\btagihan\b|\binvoice\b|\bpembayaran\b`,

		`\btiket\b|\bhelpdesk\b|\bissue tracking\b|\bperbaiki bug\b|\bbugfix\b|\bdeploy\b|\brelease\b|\brollout\b`,
		`\bkonfigurasi\b|\bkonfigur(asi)?\b|\bsetup\b|\binstalasi\b|\bimplementasi\b|\bgo[- ]live\b`,
		`\bdokumentasi teknis\b|\breadme\b|\bSOP\b|\bpanduan\b`,

		`\bsurvei\b|\bsurvey\b|\bverifikasi lapangan\b|\bpengukuran\b|\bpemetaan\b`,
		`\bkunjungan\b|\bvisit\b|\bpeninjauan\b|\binspeksi\b|\bcek lokasi\b`,

		`\bpenyusunan rancangan\b|\brancangan peraturan\b|\bperwal\b|\bperbup\b|\bperda\b`,
		`\bkonsultasi hukum\b|\bklarifikasi regulasi\b`,

		`\bmenyiapkan materi\b|\bbahan paparan\b|\bslide\b|\bdeck\b|\bpress release\b|\bsiaran pers\b`,
		`\bpublikasi\b|\bunggah ke website\b|\bmedia sosial\b|\bkonten informasi\b`,

		`\bH\+?\d+\b|\bMinggu depan\b|\bpekan depan\b|\bbulan depan\b|\bakhir (pekan|bulan)\b|\bawal (pekan|bulan)\b`,

		`\bdiminta untuk\b|\bdiharapkan untuk\b|\bagar\b|\bharap\b|\bsegera\b|\bsesegera mungkin\b|\bASAP\b`,
		`\bdiperintahkan\b|\bditekankan\b|\bdianjurkan\b`,

		`\bserahkan\b|\bdiserahkan\b|\bkirimkan\b|\bdikirimkan\b|\bunggah berkas\b|\bupload berkas\b|\bsubmit\b|\bdisubmit\b`,
		`\bmenyertakan lampiran\b|\blampiran lengkap\b|\bkelengkapan berkas\b`,

		`\bmenyusun jadwal\b|\btime line\b|\btimeline\b|\brencana kerja\b|\bRencana Tindak Lanjut\b|\bRTL\b`,
	},
	Isu: {
		`\bisu\b|\bmasalah\b|\bkendala\b|\brisiko\b|\bblokir\b|\bproblem\b|\bcatatan risiko\b`,
	},
	Arahan: {
		`\barahan\b|\binstruksi\b|\bdiarahkan\b|\bdiminta\b|\bgaris besar\b|\bperhatian\b`,
	},
	Catatan: {
		`\bcatatan\b|\binformasi\b|\bupdate\b|\bkonteks\b|\bpengantar\b`,
	},
}
